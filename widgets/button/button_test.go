// Copyright 2019-2022 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package button

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nilgiri/console"
)

func TestButtonText(t *testing.T) {
	b := New("OK")
	assert.Equal(t, "<OK>", b.Decoration.Left+b.Label+b.Decoration.Right)
}

func TestButtonClickViaEnter(t *testing.T) {
	b := New("OK")
	var clicked bool
	b.OnClick = func(app console.IApp) { clicked = true }

	handled := b.HandleKey(nil, console.Key{Name: console.KeyEnter})
	assert.True(t, handled)
	assert.True(t, clicked)
}

func TestButtonClickViaMouseRelease(t *testing.T) {
	b := New("OK")
	var clicked bool
	b.OnClick = func(app console.IApp) { clicked = true }

	handled := b.HandleMouse(nil, console.MouseEvent{Action: console.MouseRelease, Button: console.MouseButton1})
	assert.True(t, handled)
	assert.True(t, clicked)
}
