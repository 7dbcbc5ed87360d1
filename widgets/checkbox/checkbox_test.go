// Copyright 2019-2022 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package checkbox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nilgiri/console"
)

func TestCheckboxToggleViaSpace(t *testing.T) {
	c := New("remember me", false)
	assert.False(t, c.IsChecked())

	handled := c.HandleKey(nil, console.Key{Name: console.KeyRune, Rune: ' '})
	assert.True(t, handled)
	assert.True(t, c.IsChecked())
}

func TestCheckboxToggleViaMouse(t *testing.T) {
	c := New("remember me", true)
	var last bool
	c.OnToggle = func(app console.IApp, checked bool) { last = checked }

	c.HandleMouse(nil, console.MouseEvent{Action: console.MouseRelease, Button: console.MouseButton1})
	assert.False(t, c.IsChecked())
	assert.False(t, last)
}

func TestCheckboxText(t *testing.T) {
	c := New("opt", true)
	assert.Equal(t, "[X] opt", c.text())
	c.SetChecked(nil, false)
	assert.Equal(t, "[ ] opt", c.text())
}
