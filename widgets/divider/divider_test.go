// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package divider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nilgiri/console"
)

func TestDividerDrawsTopRowOnly(t *testing.T) {
	scr := console.NewScreen(5, 3)
	w := NewAscii()
	w.SetRect(console.Rect{X: 0, Y: 1, W: 5, H: 1})

	w.Draw(scr, nil)

	assert.Equal(t, '-', scr.GetCell(0, 1).Rune())
	assert.Equal(t, '-', scr.GetCell(4, 1).Rune())
	assert.Equal(t, ' ', scr.GetCell(0, 0).Rune())
}
