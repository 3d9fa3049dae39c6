// Package parser builds a typed AST of resource definitions from the token
// stream. RC has no uniform grammar: each resource type gets its own body
// sub-grammar, selected after the name and type are read.
package parser

import (
	"github.com/resbuild/resc/lexer"
)

// File is a parsed RC translation unit.
type File struct {
	Statements []Statement
}

// Statement is a top-level item: a resource definition or a preamble
// statement that adjusts running defaults.
type Statement interface {
	stmt()
}

// LanguageStatement sets the running default language for subsequent
// resources.
type LanguageStatement struct {
	Tok lexer.Token
	ID  uint16
}

// VersionStatement sets the running default user version value.
type VersionStatement struct {
	Tok   lexer.Token
	Value uint32
}

// CharacteristicsStatement sets the running default characteristics value.
type CharacteristicsStatement struct {
	Tok   lexer.Token
	Value uint32
}

func (*LanguageStatement) stmt()        {}
func (*VersionStatement) stmt()         {}
func (*CharacteristicsStatement) stmt() {}
func (*Resource) stmt()                 {}

// NameID is a resource name or type: either a 16-bit ordinal or a string.
type NameID struct {
	Tok       lexer.Token
	IsOrdinal bool
	Ordinal   uint16
	Name      string
}

// MemoryFlag is one of the memory disposition keywords a resource may carry.
type MemoryFlag int

const (
	MemoryMoveable MemoryFlag = iota
	MemoryFixed
	MemoryPure
	MemoryImpure
	MemoryPreload
	MemoryLoadOnCall
	MemoryDiscardable
	MemoryShared
	MemoryNonShared
)

// CommonOptions are the statements allowed between a resource's type and its
// body.
type CommonOptions struct {
	MemoryFlags     []MemoryFlag
	Language        *uint16
	Version         *uint32
	Characteristics *uint32
}

// Resource is one resource definition.
type Resource struct {
	Name    NameID
	Type    NameID
	Options CommonOptions
	Body    Body
}

// Body is a resource body; the concrete type depends on the resource type.
type Body interface {
	body()
}

// FileBody embeds the contents of an external file.
type FileBody struct {
	FilenameTok lexer.Token
}

// Expression is an evaluated numeric expression. IsLong records whether any
// operand carried the L suffix, which widens raw data emission to a DWORD.
type Expression struct {
	Value    uint32
	IsLong   bool
	FirstTok lexer.Token
}

// FlagsExpression accumulates OR terms and NOT terms of a style expression.
// The final value is (base | Value) &^ NotMask.
type FlagsExpression struct {
	Value   uint32
	NotMask uint32
}

// DataItem is one element of a raw data block: a string literal or a number.
type DataItem struct {
	IsString  bool
	StringTok lexer.Token
	Wide      bool
	Number    Expression
}

// RawDataBody is a brace/BEGIN block of numbers and strings.
type RawDataBody struct {
	OpenTok lexer.Token
	Items   []DataItem
}

// StringTableEntry is one id/string pair in a STRINGTABLE.
type StringTableEntry struct {
	IDTok     lexer.Token
	ID        uint16
	StringTok lexer.Token
	Wide      bool
}

// StringTableBody holds the entries of one STRINGTABLE block.
type StringTableBody struct {
	Entries []StringTableEntry
}

// ControlClass identifies a dialog control's window class ordinal.
type ControlClass uint16

const (
	ClassButton    ControlClass = 0x0080
	ClassEdit      ControlClass = 0x0081
	ClassStatic    ControlClass = 0x0082
	ClassListBox   ControlClass = 0x0083
	ClassScrollBar ControlClass = 0x0084
	ClassComboBox  ControlClass = 0x0085
)

// DialogControl is one control statement inside a DIALOG(EX) body.
type DialogControl struct {
	Tok          lexer.Token
	Text         *DataItem // nil for controls without a text field
	ID           uint32
	IDTok        lexer.Token
	ClassOrdinal ControlClass
	ClassName    string // set for CONTROL with a string class
	UseClassName bool
	Style        FlagsExpression
	StyleGiven   bool
	ExStyle      FlagsExpression
	ExStyleGiven bool
	X, Y, W, H   uint16
	HelpID       uint32 // DIALOGEX only
	DefaultStyle uint32 // implied by the control keyword
}

// DialogBody is a DIALOG or DIALOGEX resource body.
type DialogBody struct {
	Ex           bool
	X, Y, W, H   uint16
	HelpID       uint32
	Style        FlagsExpression
	StyleGiven   bool
	ExStyle      FlagsExpression
	ExStyleGiven bool
	Caption      *lexer.Token
	CaptionWide  bool
	Menu         *NameID
	Class        *NameID
	FontSize     uint16
	FontName     string
	FontWeight   uint16
	FontItalic   bool
	FontCharset  uint8
	FontGiven    bool
	Controls     []DialogControl
}

// MenuItemFlags are MF_* flags parsed from menu item option keywords.
type MenuItemFlags uint16

const (
	MFGrayed       MenuItemFlags = 0x0001
	MFInactive     MenuItemFlags = 0x0002
	MFChecked      MenuItemFlags = 0x0008
	MFMenuBarBreak MenuItemFlags = 0x0020
	MFMenuBreak    MenuItemFlags = 0x0040
	MFHelp         MenuItemFlags = 0x4000
)

// MenuItem is a MENUITEM or POPUP node; popups carry children.
type MenuItem struct {
	Tok         lexer.Token
	IsPopup     bool
	IsSeparator bool
	TextTok     lexer.Token
	TextWide    bool
	ID          uint32
	Flags       MenuItemFlags
	Items       []MenuItem

	// MENUEX fields
	Type   uint32
	State  uint32
	HelpID uint32
}

// MenuBody is a MENU or MENUEX resource body.
type MenuBody struct {
	Ex    bool
	Items []MenuItem
}

// AcceleratorFlags are the accelerator table entry flags.
type AcceleratorFlags uint16

const (
	AccVirtKey  AcceleratorFlags = 0x01
	AccNoInvert AcceleratorFlags = 0x02
	AccShift    AcceleratorFlags = 0x04
	AccControl  AcceleratorFlags = 0x08
	AccAlt      AcceleratorFlags = 0x10
	// AccLastEntry marks the final entry of the table.
	AccLastEntry AcceleratorFlags = 0x80
)

// AcceleratorEntry is one accelerator definition.
type AcceleratorEntry struct {
	EventTok      lexer.Token
	EventIsString bool
	Event         uint16
	ID            uint16
	Flags         AcceleratorFlags
}

// AcceleratorsBody is an ACCELERATORS resource body.
type AcceleratorsBody struct {
	Entries []AcceleratorEntry
}

// VersionNode is a node of the VERSIONINFO tree: a block or a value.
type VersionNode interface {
	versionNode()
}

// VersionBlock is a BLOCK "name" { ... } node.
type VersionBlock struct {
	NameTok  lexer.Token
	Children []VersionNode
}

// VersionValue is a VALUE "key", v1, v2, ... node. Values may mix strings
// and numbers.
type VersionValue struct {
	KeyTok lexer.Token
	Values []DataItem
}

func (*VersionBlock) versionNode() {}
func (*VersionValue) versionNode() {}

// VersionInfoBody is a VERSIONINFO resource body.
type VersionInfoBody struct {
	FileVersion    [4]uint16
	ProductVersion [4]uint16
	FileFlagsMask  uint32
	FileFlags      uint32
	FileOS         uint32
	FileType       uint32
	FileSubtype    uint32
	Nodes          []VersionNode
}

func (*FileBody) body()         {}
func (*RawDataBody) body()      {}
func (*StringTableBody) body()  {}
func (*DialogBody) body()       {}
func (*MenuBody) body()         {}
func (*AcceleratorsBody) body() {}
func (*VersionInfoBody) body()  {}
