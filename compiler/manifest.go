package compiler

import (
	"github.com/beevik/etree"

	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/lexer"
)

// checkManifest warns when an RT_MANIFEST payload is not well-formed XML.
// rc.exe embeds whatever bytes it is handed; the loader then fails at
// runtime with no pointer back to the build, so the warning happens here.
func (c *compiler) checkManifest(tok lexer.Token, data []byte) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		c.warnAt(tok, diagnostics.MalformedManifest, diagnostics.StringExtra{Value: err.Error()})
		return
	}
	if doc.Root() == nil {
		c.warnAt(tok, diagnostics.MalformedManifest, diagnostics.StringExtra{Value: "no root element"})
	}
}
