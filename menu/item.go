// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package menu implements drop-down and nested pop-up menus (§3, §4.6):
// a Menu is a list of Items, any of which may open a submenu; exactly one
// menu chain may be open at a time per Application, tracked via
// console.IApp.RegisterMenu/UnregisterMenu.
package menu

import "github.com/nilgiri/console"

//======================================================================

// Item is one row of a Menu: either a separator, a leaf command (ID
// dispatched via console.IApp.DispatchMenu), or a parent of a Submenu.
type Item struct {
	Label     string
	Mnemonic  rune // 0 means none; matched case-insensitively against a keypress while this item's menu is open
	Accel     console.Key
	HasAccel  bool
	ID        int
	Submenu   *Menu
	Separator bool
	enabled   bool
}

// NewItem returns an enabled leaf item dispatching id when activated.
func NewItem(label string, id int) *Item {
	return &Item{Label: label, ID: id, enabled: true}
}

// NewSubmenuItem returns an enabled item that opens sub when activated.
func NewSubmenuItem(label string, sub *Menu) *Item {
	return &Item{Label: label, Submenu: sub, enabled: true}
}

// NewSeparator returns a non-selectable divider row.
func NewSeparator() *Item {
	return &Item{Separator: true}
}

func (it *Item) Enabled() bool     { return !it.Separator && it.enabled }
func (it *Item) SetEnabled(v bool) { it.enabled = v }

// WithMnemonic sets the item's mnemonic character (matched while its menu
// is the open one, §4.6's "mnemonics only match while their menu is
// open").
func (it *Item) WithMnemonic(r rune) *Item {
	it.Mnemonic = r
	return it
}

// WithAccelerator records the global accelerator key for this item. The
// caller is still responsible for calling console.IApp.BindAccelerator so
// the key works even while this item's menu isn't open (§4.6's
// "accelerators are checked before menu or widget routing, regardless of
// whether any menu is open").
func (it *Item) WithAccelerator(k console.Key) *Item {
	it.Accel = k
	it.HasAccel = true
	return it
}
