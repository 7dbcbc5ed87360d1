// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nilgiri/console"
)

func TestFillPaintsWholeRect(t *testing.T) {
	scr := console.NewScreen(5, 3)
	w := New('.')
	w.SetRect(console.Rect{X: 1, Y: 1, W: 3, H: 1})

	w.Draw(scr, nil)

	assert.Equal(t, '.', scr.GetCell(1, 1).Rune())
	assert.Equal(t, '.', scr.GetCell(3, 1).Rune())
	assert.Equal(t, ' ', scr.GetCell(0, 0).Rune())
}

func TestFillRejectsInput(t *testing.T) {
	w := New(' ')
	assert.False(t, w.HandleKey(nil, console.Key{}))
	assert.False(t, w.HandleMouse(nil, console.MouseEvent{}))
	assert.False(t, w.CanFocus())
}
