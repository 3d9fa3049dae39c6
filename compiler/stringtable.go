package compiler

import (
	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/lexer"
	"github.com/resbuild/resc/parser"
)

// STRINGTABLE blocks accumulate across the whole file and are emitted last,
// grouped by language into bundles of 16 consecutive ids (id >> 4).

type stringTableKey struct {
	language uint16
	bundle   uint16
}

type stringDefKey struct {
	language uint16
	id       uint16
}

type stringBundle struct {
	entries         [16][]uint16
	present         [16]bool
	memoryFlags     uint16
	version         uint32
	characteristics uint32
}

type stringTables struct {
	bundles map[stringTableKey]*stringBundle
	order   []stringTableKey
	defined map[stringDefKey]lexer.Token
}

func newStringTables() *stringTables {
	return &stringTables{
		bundles: make(map[stringTableKey]*stringBundle),
		defined: make(map[stringDefKey]lexer.Token),
	}
}

func (st *stringTables) add(c *compiler, res *parser.Resource, body *parser.StringTableBody) {
	language := c.resourceLanguage(&res.Options)
	version, characteristics := c.headerValues(&res.Options)
	memoryFlags := applyMemoryFlags(MemFlagMoveable|MemFlagPure|MemFlagDiscardable, res.Options.MemoryFlags)

	for _, entry := range body.Entries {
		def := stringDefKey{language: language, id: entry.ID}
		if prior, ok := st.defined[def]; ok {
			c.errorAt(entry.IDTok, diagnostics.StringAlreadyDefined, diagnostics.NumberExtra{Value: uint32(entry.ID)})
			c.noteAt(prior, diagnostics.StringAlreadyDefinedNote, diagnostics.NumberExtra{Value: uint32(entry.ID)})
			continue
		}
		st.defined[def] = entry.IDTok

		key := stringTableKey{language: language, bundle: entry.ID >> 4}
		bundle, ok := st.bundles[key]
		if !ok {
			bundle = &stringBundle{
				memoryFlags:     memoryFlags,
				version:         version,
				characteristics: characteristics,
			}
			st.bundles[key] = bundle
			st.order = append(st.order, key)
		}
		idx := entry.ID & 0xF
		bundle.entries[idx] = lexer.ParseStringLiteralUTF16(entry.StringTok.Slice(c.src), c.decoder, entry.Wide)
		bundle.present[idx] = true
	}
}

// emit writes one RT_STRING record per bundle: exactly 16 length-prefixed
// strings, empty slots as zero length. The record name is bundle + 1.
func (st *stringTables) emit(c *compiler) error {
	for _, key := range st.order {
		bundle := st.bundles[key]
		var w buffer
		for i := 0; i < 16; i++ {
			units := bundle.entries[i]
			if c.opts.NullTerminateStringTable && bundle.present[i] {
				units = append(units, 0)
			}
			w.u16(uint16(len(units)))
			w.units(units)
		}
		record := &Record{
			Type:            Ordinal(RTString),
			Name:            Ordinal(key.bundle + 1),
			MemoryFlags:     bundle.memoryFlags,
			Language:        key.language,
			Version:         bundle.version,
			Characteristics: bundle.characteristics,
			Data:            w.b,
		}
		if err := c.emit(record); err != nil {
			return err
		}
	}
	return nil
}
