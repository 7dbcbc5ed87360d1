// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package menu

import "github.com/nilgiri/console"

//======================================================================

// BindAccelerators walks items (recursing into submenus) and registers
// every accelerator key with app, plus an OnMenu handler for every leaf
// ID so that a menu's command IDs work whether the menu is open or not
// (§4.6: "accelerators fire their command directly, without requiring
// the menu to ever open").
func BindAccelerators(app console.IApp, items []*Item, dispatch func(id int)) {
	for _, it := range items {
		if it.Submenu != nil {
			BindAccelerators(app, it.Submenu.Items, dispatch)
			continue
		}
		if it.Separator {
			continue
		}
		if it.HasAccel {
			app.BindAccelerator(it.Accel, it.ID)
		}
		id := it.ID
		app.OnMenu(id, func(console.IApp) {
			if dispatch != nil {
				dispatch(id)
			}
		})
	}
}
