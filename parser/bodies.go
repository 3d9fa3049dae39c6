package parser

import (
	"strings"

	"github.com/resbuild/resc/lexer"
)

// Window and control style bits used for the defaults implied by control
// keywords.
const (
	wsVisible = 0x10000000
	wsChild   = 0x40000000
	wsBorder  = 0x00800000
	wsGroup   = 0x00020000
	wsTabstop = 0x00010000

	bsDefPushButton   = 0x00000001
	bsCheckBox        = 0x00000002
	bsAutoCheckBox    = 0x00000003
	bsRadioButton     = 0x00000004
	bs3State          = 0x00000005
	bsAuto3State      = 0x00000006
	bsGroupBox        = 0x00000007
	bsAutoRadioButton = 0x00000009

	ssCenter = 0x00000001
	ssRight  = 0x00000002
	ssIcon   = 0x00000003

	lbsNotify = 0x00000001
)

// controlSpec describes a control statement keyword: its class, whether it
// takes a leading text field, and the style implied by the keyword.
type controlSpec struct {
	class        ControlClass
	hasText      bool
	defaultStyle uint32
}

var controlSpecs = map[string]controlSpec{
	"LTEXT":           {ClassStatic, true, wsChild | wsVisible | wsGroup},
	"CTEXT":           {ClassStatic, true, wsChild | wsVisible | wsGroup | ssCenter},
	"RTEXT":           {ClassStatic, true, wsChild | wsVisible | wsGroup | ssRight},
	"ICON":            {ClassStatic, true, wsChild | wsVisible | ssIcon},
	"PUSHBUTTON":      {ClassButton, true, wsChild | wsVisible | wsTabstop},
	"DEFPUSHBUTTON":   {ClassButton, true, wsChild | wsVisible | wsTabstop | bsDefPushButton},
	"CHECKBOX":        {ClassButton, true, wsChild | wsVisible | wsTabstop | bsCheckBox},
	"AUTOCHECKBOX":    {ClassButton, true, wsChild | wsVisible | wsTabstop | bsAutoCheckBox},
	"RADIOBUTTON":     {ClassButton, true, wsChild | wsVisible | bsRadioButton},
	"AUTORADIOBUTTON": {ClassButton, true, wsChild | wsVisible | bsAutoRadioButton},
	"STATE3":          {ClassButton, true, wsChild | wsVisible | wsTabstop | bs3State},
	"AUTO3STATE":      {ClassButton, true, wsChild | wsVisible | wsTabstop | bsAuto3State},
	"GROUPBOX":        {ClassButton, true, wsChild | wsVisible | bsGroupBox},
	"EDITTEXT":        {ClassEdit, false, wsChild | wsVisible | wsBorder | wsTabstop},
	"COMBOBOX":        {ClassComboBox, false, wsChild | wsVisible | wsTabstop},
	"LISTBOX":         {ClassListBox, false, wsChild | wsVisible | wsBorder | lbsNotify},
	"SCROLLBAR":       {ClassScrollBar, false, wsChild | wsVisible},
}

var classKeywords = map[string]ControlClass{
	"BUTTON":    ClassButton,
	"EDIT":      ClassEdit,
	"STATIC":    ClassStatic,
	"LISTBOX":   ClassListBox,
	"SCROLLBAR": ClassScrollBar,
	"COMBOBOX":  ClassComboBox,
}

// parseDialog reads the header statements and control block of a DIALOG or
// DIALOGEX resource. The type keyword has been consumed.
func (p *Parser) parseDialog(ex bool, opts *CommonOptions) (*DialogBody, error) {
	body := &DialogBody{Ex: ex}

	coords := []*uint16{&body.X, &body.Y, &body.W, &body.H}
	for i, dst := range coords {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		*dst = uint16(e.Value)
		if i < len(coords)-1 {
			if err := p.expectComma(); err != nil {
				return nil, err
			}
		}
	}
	// DIALOGEX allows an optional help id after the rectangle.
	if ex && p.tok.Type == lexer.COMMA {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body.HelpID = e.Value
	}

	for !p.tok.IsBlockOpen() {
		if p.tok.Type != lexer.LITERAL {
			return nil, p.expectedSomethingElse("dialog statement", "'{'", "BEGIN")
		}
		keyword := strings.ToUpper(string(p.slice()))
		switch keyword {
		case "STYLE":
			if err := p.advance(); err != nil {
				return nil, err
			}
			f, err := p.parseFlags()
			if err != nil {
				return nil, err
			}
			body.Style = f
			body.StyleGiven = true
		case "EXSTYLE":
			if err := p.advance(); err != nil {
				return nil, err
			}
			f, err := p.parseFlags()
			if err != nil {
				return nil, err
			}
			body.ExStyle = f
			body.ExStyleGiven = true
		case "CAPTION":
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
				return nil, p.expectedToken("quoted string")
			}
			tok := p.tok
			body.Caption = &tok
			body.CaptionWide = p.tok.Type == lexer.QUOTED_WIDE_STRING
			if err := p.advance(); err != nil {
				return nil, err
			}
		case "MENU":
			if err := p.advance(); err != nil {
				return nil, err
			}
			id, err := p.parseNameID()
			if err != nil {
				return nil, err
			}
			body.Menu = &id
		case "CLASS":
			if err := p.advance(); err != nil {
				return nil, err
			}
			id, err := p.parseNameID()
			if err != nil {
				return nil, err
			}
			body.Class = &id
		case "FONT":
			if err := p.parseDialogFont(body, ex); err != nil {
				return nil, err
			}
		case "LANGUAGE", "VERSION", "CHARACTERISTICS", "MOVEABLE", "FIXED", "PURE",
			"IMPURE", "PRELOAD", "LOADONCALL", "DISCARDABLE", "SHARED", "NONSHARED":
			if err := p.parseCommonOptions(opts); err != nil {
				return nil, err
			}
		default:
			return nil, p.expectedSomethingElse("dialog statement", "'{'", "BEGIN")
		}
	}

	if _, err := p.expectBlockOpen(); err != nil {
		return nil, err
	}
	for !p.tok.IsBlockClose() {
		if p.tok.Type == lexer.EOF {
			return nil, p.expectedSomethingElse("control statement", "END")
		}
		control, err := p.parseControl(ex)
		if err != nil {
			return nil, err
		}
		body.Controls = append(body.Controls, control)
	}
	return body, p.advance()
}

func (p *Parser) parseDialogFont(body *DialogBody, ex bool) error {
	if err := p.advance(); err != nil {
		return err
	}
	size, err := p.parseExpression()
	if err != nil {
		return err
	}
	body.FontSize = uint16(size.Value)
	if err := p.expectComma(); err != nil {
		return err
	}
	if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
		return p.expectedToken("quoted string")
	}
	body.FontName = quotedBody(p.tok.Slice(p.src))
	body.FontGiven = true
	if err := p.advance(); err != nil {
		return err
	}
	// DIALOGEX accepts weight, italic, charset after the face name.
	if ex {
		extras := []func(uint32){
			func(v uint32) { body.FontWeight = uint16(v) },
			func(v uint32) { body.FontItalic = v != 0 },
			func(v uint32) { body.FontCharset = uint8(v) },
		}
		for _, set := range extras {
			if p.tok.Type != lexer.COMMA {
				break
			}
			if err := p.advance(); err != nil {
				return err
			}
			e, err := p.parseExpression()
			if err != nil {
				return err
			}
			set(e.Value)
		}
	}
	return nil
}

func quotedBody(slice []byte) string {
	s := string(slice)
	s = strings.TrimPrefix(s, "L")
	s = strings.TrimPrefix(s, "l")
	s = strings.Trim(s, `"`)
	return s
}

// parseControl reads one control statement.
func (p *Parser) parseControl(ex bool) (DialogControl, error) {
	if p.tok.Type != lexer.LITERAL {
		return DialogControl{}, p.expectedSomethingElse("control statement", "END")
	}
	keyword := strings.ToUpper(string(p.slice()))
	tok := p.tok

	if keyword == "CONTROL" {
		return p.parseGenericControl(ex, tok)
	}

	spec, ok := controlSpecs[keyword]
	if !ok {
		return DialogControl{}, p.expectedSomethingElse("control statement", "END")
	}
	if err := p.advance(); err != nil {
		return DialogControl{}, err
	}

	control := DialogControl{Tok: tok, ClassOrdinal: spec.class, DefaultStyle: spec.defaultStyle}

	if spec.hasText {
		item, err := p.parseDataItem()
		if err != nil {
			return DialogControl{}, err
		}
		control.Text = &item
		if err := p.expectComma(); err != nil {
			return DialogControl{}, err
		}
	}

	control.IDTok = p.tok
	id, err := p.parseExpression()
	if err != nil {
		return DialogControl{}, err
	}
	control.ID = id.Value
	if err := p.expectComma(); err != nil {
		return DialogControl{}, err
	}

	coords := []*uint16{&control.X, &control.Y, &control.W, &control.H}
	for i, dst := range coords {
		e, err := p.parseExpression()
		if err != nil {
			return DialogControl{}, err
		}
		*dst = uint16(e.Value)
		if i < len(coords)-1 {
			if err := p.expectComma(); err != nil {
				return DialogControl{}, err
			}
		}
	}

	// Optional style, exstyle, and (DIALOGEX) help id.
	if p.tok.Type == lexer.COMMA {
		if err := p.advance(); err != nil {
			return DialogControl{}, err
		}
		f, err := p.parseFlags()
		if err != nil {
			return DialogControl{}, err
		}
		control.Style = f
		control.StyleGiven = true
		if p.tok.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return DialogControl{}, err
			}
			f, err := p.parseFlags()
			if err != nil {
				return DialogControl{}, err
			}
			control.ExStyle = f
			control.ExStyleGiven = true
			if ex && p.tok.Type == lexer.COMMA {
				if err := p.advance(); err != nil {
					return DialogControl{}, err
				}
				e, err := p.parseExpression()
				if err != nil {
					return DialogControl{}, err
				}
				control.HelpID = e.Value
			}
		}
	}
	return control, nil
}

// parseGenericControl reads CONTROL text, id, class, style, x, y, w, h
// [, exstyle [, helpID]].
func (p *Parser) parseGenericControl(ex bool, tok lexer.Token) (DialogControl, error) {
	if err := p.advance(); err != nil {
		return DialogControl{}, err
	}
	control := DialogControl{Tok: tok, DefaultStyle: wsChild | wsVisible}

	item, err := p.parseDataItem()
	if err != nil {
		return DialogControl{}, err
	}
	control.Text = &item
	if err := p.expectComma(); err != nil {
		return DialogControl{}, err
	}

	control.IDTok = p.tok
	id, err := p.parseExpression()
	if err != nil {
		return DialogControl{}, err
	}
	control.ID = id.Value
	if err := p.expectComma(); err != nil {
		return DialogControl{}, err
	}

	switch p.tok.Type {
	case lexer.QUOTED_ASCII_STRING, lexer.QUOTED_WIDE_STRING:
		name := quotedBody(p.tok.Slice(p.src))
		if class, ok := classKeywords[strings.ToUpper(name)]; ok {
			control.ClassOrdinal = class
		} else {
			control.ClassName = name
			control.UseClassName = true
		}
		if err := p.advance(); err != nil {
			return DialogControl{}, err
		}
	case lexer.LITERAL:
		name := strings.ToUpper(string(p.slice()))
		class, ok := classKeywords[name]
		if !ok {
			return DialogControl{}, p.expectedSomethingElse("control class")
		}
		control.ClassOrdinal = class
		if err := p.advance(); err != nil {
			return DialogControl{}, err
		}
	default:
		return DialogControl{}, p.expectedSomethingElse("control class")
	}
	if err := p.expectComma(); err != nil {
		return DialogControl{}, err
	}

	f, err := p.parseFlags()
	if err != nil {
		return DialogControl{}, err
	}
	control.Style = f
	control.StyleGiven = true
	if err := p.expectComma(); err != nil {
		return DialogControl{}, err
	}

	coords := []*uint16{&control.X, &control.Y, &control.W, &control.H}
	for i, dst := range coords {
		e, err := p.parseExpression()
		if err != nil {
			return DialogControl{}, err
		}
		*dst = uint16(e.Value)
		if i < len(coords)-1 {
			if err := p.expectComma(); err != nil {
				return DialogControl{}, err
			}
		}
	}

	if p.tok.Type == lexer.COMMA {
		if err := p.advance(); err != nil {
			return DialogControl{}, err
		}
		f, err := p.parseFlags()
		if err != nil {
			return DialogControl{}, err
		}
		control.ExStyle = f
		control.ExStyleGiven = true
		if ex && p.tok.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return DialogControl{}, err
			}
			e, err := p.parseExpression()
			if err != nil {
				return DialogControl{}, err
			}
			control.HelpID = e.Value
		}
	}
	return control, nil
}

var menuItemFlagKeywords = map[string]MenuItemFlags{
	"GRAYED":       MFGrayed,
	"INACTIVE":     MFInactive,
	"CHECKED":      MFChecked,
	"MENUBARBREAK": MFMenuBarBreak,
	"MENUBREAK":    MFMenuBreak,
	"HELP":         MFHelp,
}

// parseMenu reads the item block of a MENU or MENUEX resource.
func (p *Parser) parseMenu(ex bool) (*MenuBody, error) {
	body := &MenuBody{Ex: ex}
	items, err := p.parseMenuBlock(ex)
	if err != nil {
		return nil, err
	}
	body.Items = items
	return body, nil
}

func (p *Parser) parseMenuBlock(ex bool) ([]MenuItem, error) {
	if _, err := p.expectBlockOpen(); err != nil {
		return nil, err
	}
	var items []MenuItem
	for !p.tok.IsBlockClose() {
		if p.tok.Type == lexer.EOF {
			return nil, p.expectedSomethingElse("menu item", "END")
		}
		item, err := p.parseMenuItem(ex)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, p.advance()
}

func (p *Parser) parseMenuItem(ex bool) (MenuItem, error) {
	switch {
	case p.isKeyword("MENUITEM"):
		tok := p.tok
		if err := p.advance(); err != nil {
			return MenuItem{}, err
		}
		if p.isKeyword("SEPARATOR") {
			item := MenuItem{Tok: tok, IsSeparator: true}
			return item, p.advance()
		}
		if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
			return MenuItem{}, p.expectedToken("quoted string")
		}
		item := MenuItem{Tok: tok, TextTok: p.tok, TextWide: p.tok.Type == lexer.QUOTED_WIDE_STRING}
		if err := p.advance(); err != nil {
			return MenuItem{}, err
		}
		if p.tok.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return MenuItem{}, err
			}
			id, err := p.parseExpression()
			if err != nil {
				return MenuItem{}, err
			}
			item.ID = id.Value
			if ex {
				if err := p.parseMenuExTail(&item); err != nil {
					return MenuItem{}, err
				}
			} else if err := p.parseMenuItemFlags(&item); err != nil {
				return MenuItem{}, err
			}
		}
		return item, nil
	case p.isKeyword("POPUP"):
		tok := p.tok
		if err := p.advance(); err != nil {
			return MenuItem{}, err
		}
		if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
			return MenuItem{}, p.expectedToken("quoted string")
		}
		item := MenuItem{Tok: tok, IsPopup: true, TextTok: p.tok, TextWide: p.tok.Type == lexer.QUOTED_WIDE_STRING}
		if err := p.advance(); err != nil {
			return MenuItem{}, err
		}
		if p.tok.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return MenuItem{}, err
			}
			if ex {
				id, err := p.parseExpression()
				if err != nil {
					return MenuItem{}, err
				}
				item.ID = id.Value
				if err := p.parseMenuExTail(&item); err != nil {
					return MenuItem{}, err
				}
			} else if err := p.parseMenuItemFlags(&item); err != nil {
				return MenuItem{}, err
			}
		}
		children, err := p.parseMenuBlock(ex)
		if err != nil {
			return MenuItem{}, err
		}
		item.Items = children
		return item, nil
	default:
		return MenuItem{}, p.expectedSomethingElse("MENUITEM", "POPUP", "END")
	}
}

func (p *Parser) parseMenuItemFlags(item *MenuItem) error {
	for {
		if p.tok.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		if p.tok.Type != lexer.LITERAL {
			return nil
		}
		flag, ok := menuItemFlagKeywords[strings.ToUpper(string(p.slice()))]
		if !ok {
			return nil
		}
		item.Flags |= flag
		if err := p.advance(); err != nil {
			return err
		}
	}
}

// parseMenuExTail reads the optional type, state and help id values of a
// MENUEX item after its id.
func (p *Parser) parseMenuExTail(item *MenuItem) error {
	targets := []*uint32{&item.Type, &item.State, &item.HelpID}
	for _, dst := range targets {
		if p.tok.Type != lexer.COMMA {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
		e, err := p.parseExpression()
		if err != nil {
			return err
		}
		*dst = e.Value
	}
	return nil
}

var acceleratorFlagKeywords = map[string]AcceleratorFlags{
	"VIRTKEY":  AccVirtKey,
	"NOINVERT": AccNoInvert,
	"SHIFT":    AccShift,
	"CONTROL":  AccControl,
	"ALT":      AccAlt,
}

// parseAccelerators reads the entry block of an ACCELERATORS resource.
func (p *Parser) parseAccelerators() (*AcceleratorsBody, error) {
	if _, err := p.expectBlockOpen(); err != nil {
		return nil, err
	}
	body := &AcceleratorsBody{}
	for !p.tok.IsBlockClose() {
		if p.tok.Type == lexer.EOF {
			return nil, p.expectedSomethingElse("accelerator entry", "END")
		}
		entry, err := p.parseAcceleratorEntry()
		if err != nil {
			return nil, err
		}
		body.Entries = append(body.Entries, entry)
	}
	return body, p.advance()
}

func (p *Parser) parseAcceleratorEntry() (AcceleratorEntry, error) {
	entry := AcceleratorEntry{EventTok: p.tok}

	var rawEvent uint16
	switch p.tok.Type {
	case lexer.QUOTED_ASCII_STRING, lexer.QUOTED_WIDE_STRING:
		entry.EventIsString = true
		body := quotedBody(p.tok.Slice(p.src))
		if len(body) == 0 {
			return entry, p.expectedSomethingElse("accelerator event")
		}
		if body[0] == '^' {
			if len(body) < 2 {
				return entry, p.expectedSomethingElse("accelerator event")
			}
			// ^X is the control character
			rawEvent = uint16(strings.ToUpper(body[1:2])[0] - 0x40)
		} else {
			rawEvent = uint16(body[0])
		}
		if err := p.advance(); err != nil {
			return entry, err
		}
	default:
		e, err := p.parseExpression()
		if err != nil {
			return entry, err
		}
		rawEvent = uint16(e.Value)
	}

	if err := p.expectComma(); err != nil {
		return entry, err
	}
	id, err := p.parseExpression()
	if err != nil {
		return entry, err
	}
	entry.ID = uint16(id.Value)

	for p.tok.Type == lexer.COMMA {
		if err := p.advance(); err != nil {
			return entry, err
		}
		if p.tok.Type != lexer.LITERAL {
			return entry, p.expectedSomethingElse("accelerator option")
		}
		keyword := strings.ToUpper(string(p.slice()))
		if keyword == "ASCII" {
			// ASCII is the default and sets no flag; combining it with
			// VIRTKEY is not diagnosed.
			if err := p.advance(); err != nil {
				return entry, err
			}
			continue
		}
		flag, ok := acceleratorFlagKeywords[keyword]
		if !ok {
			return entry, p.expectedSomethingElse("accelerator option")
		}
		entry.Flags |= flag
		if err := p.advance(); err != nil {
			return entry, err
		}
	}

	// A virtual key event is uppercased.
	if entry.EventIsString && entry.Flags&AccVirtKey != 0 && rawEvent >= 'a' && rawEvent <= 'z' {
		rawEvent -= 'a' - 'A'
	}
	entry.Event = rawEvent
	return entry, nil
}

// parseVersionInfo reads the fixed info statements and node block of a
// VERSIONINFO resource.
func (p *Parser) parseVersionInfo(opts *CommonOptions) (*VersionInfoBody, error) {
	body := &VersionInfoBody{FileFlagsMask: 0x3F}

	for !p.tok.IsBlockOpen() {
		if p.tok.Type != lexer.LITERAL {
			return nil, p.expectedSomethingElse("version statement", "'{'", "BEGIN")
		}
		keyword := strings.ToUpper(string(p.slice()))
		switch keyword {
		case "FILEVERSION", "PRODUCTVERSION":
			if err := p.advance(); err != nil {
				return nil, err
			}
			var parts [4]uint16
			for i := 0; i < 4; i++ {
				if i > 0 {
					if p.tok.Type != lexer.COMMA {
						break
					}
					if err := p.advance(); err != nil {
						return nil, err
					}
				}
				e, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				parts[i] = uint16(e.Value)
			}
			if keyword == "FILEVERSION" {
				body.FileVersion = parts
			} else {
				body.ProductVersion = parts
			}
		case "FILEFLAGSMASK", "FILEFLAGS", "FILEOS", "FILETYPE", "FILESUBTYPE":
			if err := p.advance(); err != nil {
				return nil, err
			}
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			switch keyword {
			case "FILEFLAGSMASK":
				body.FileFlagsMask = e.Value
			case "FILEFLAGS":
				body.FileFlags = e.Value
			case "FILEOS":
				body.FileOS = e.Value
			case "FILETYPE":
				body.FileType = e.Value
			case "FILESUBTYPE":
				body.FileSubtype = e.Value
			}
		case "LANGUAGE", "VERSION", "CHARACTERISTICS", "MOVEABLE", "FIXED", "PURE",
			"IMPURE", "PRELOAD", "LOADONCALL", "DISCARDABLE", "SHARED", "NONSHARED":
			if err := p.parseCommonOptions(opts); err != nil {
				return nil, err
			}
		default:
			return nil, p.expectedSomethingElse("version statement", "'{'", "BEGIN")
		}
	}

	nodes, err := p.parseVersionBlockBody()
	if err != nil {
		return nil, err
	}
	body.Nodes = nodes
	return body, nil
}

func (p *Parser) parseVersionBlockBody() ([]VersionNode, error) {
	if _, err := p.expectBlockOpen(); err != nil {
		return nil, err
	}
	var nodes []VersionNode
	for !p.tok.IsBlockClose() {
		switch {
		case p.tok.Type == lexer.EOF:
			return nil, p.expectedSomethingElse("BLOCK", "VALUE", "END")
		case p.isKeyword("BLOCK"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
				return nil, p.expectedToken("quoted string")
			}
			block := &VersionBlock{NameTok: p.tok}
			if err := p.advance(); err != nil {
				return nil, err
			}
			children, err := p.parseVersionBlockBody()
			if err != nil {
				return nil, err
			}
			block.Children = children
			nodes = append(nodes, block)
		case p.isKeyword("VALUE"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
				return nil, p.expectedToken("quoted string")
			}
			value := &VersionValue{KeyTok: p.tok}
			if err := p.advance(); err != nil {
				return nil, err
			}
			for p.tok.Type == lexer.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				item, err := p.parseDataItem()
				if err != nil {
					return nil, err
				}
				value.Values = append(value.Values, item)
			}
			nodes = append(nodes, value)
		default:
			return nil, p.expectedSomethingElse("BLOCK", "VALUE", "END")
		}
	}
	return nodes, p.advance()
}
