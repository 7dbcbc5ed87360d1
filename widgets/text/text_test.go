// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nilgiri/console"
)

func TestTextDrawClipsToRect(t *testing.T) {
	scr := console.NewScreen(5, 1)
	w := New("hello world")
	w.SetRect(console.Rect{X: 0, Y: 0, W: 5, H: 1})

	w.Draw(scr, nil)

	assert.Equal(t, 'h', scr.GetCell(0, 0).Rune())
	assert.Equal(t, 'o', scr.GetCell(4, 0).Rune())
}

func TestTextNotFocusable(t *testing.T) {
	assert.False(t, New("x").CanFocus())
}
