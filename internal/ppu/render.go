package ppu

// renderLine composes one scanline of the back buffer at the Drawing-to-
// HBlank transition: background, then window, then sprites (§4.4).
func (p *PPU) renderLine() {
	line := int(p.ly)
	if line >= visibleLines {
		return
	}

	var bgColor [Width]uint8 // raw 2-bit BG/window color, before palette
	p.windowOnLine = p.lcdc.windowEnable() && line >= int(p.wy) && int(p.wx) <= 166

	for x := 0; x < Width; x++ {
		var raw uint8
		if p.windowOnLine && x+7 >= int(p.wx) {
			raw = p.windowPixel(x)
		} else if p.lcdc.bgEnable() {
			raw = p.backgroundPixel(x)
		}
		bgColor[x] = raw
		p.back[line][x] = p.bgp.shade(raw)
	}

	if p.windowOnLine {
		p.windowLine++
	}

	if p.lcdc.spriteEnable() {
		p.renderSprites(line, &bgColor)
	}
}

// backgroundPixel returns the raw (pre-palette) 2-bit BG color at column x
// of the current scanline.
func (p *PPU) backgroundPixel(x int) uint8 {
	scrolledX := (int(p.scx) + x) & 0xFF
	scrolledY := (int(p.scy) + int(p.ly)) & 0xFF
	return p.tilePixel(p.lcdc.bgTileMapHi(), scrolledX, scrolledY)
}

// windowPixel returns the raw 2-bit window color at column x, using the
// internal window line counter rather than LY (the window only advances
// its own row when it was actually drawn on a prior scanline).
func (p *PPU) windowPixel(x int) uint8 {
	wx := x + 7 - int(p.wx)
	return p.tilePixel(p.lcdc.windowTileMapHi(), wx, p.windowLine)
}

// tilePixel resolves one pixel from a 32x32 tilemap: tileMapHi selects
// 0x9C00 over 0x9800, (px, py) are pixel coordinates within the 256x256
// tiled plane.
func (p *PPU) tilePixel(tileMapHi bool, px, py int) uint8 {
	mapBase := uint16(0x9800)
	if tileMapHi {
		mapBase = 0x9C00
	}

	tileCol := (px / 8) & 0x1F
	tileRow := (py / 8) & 0x1F
	tileIndex := p.vram.Read(mapBase - 0x8000 + uint16(tileRow*32+tileCol))

	tileAddr := p.tileDataAddress(tileIndex)
	rowInTile := uint16(py % 8)
	lo := p.vram.Read(tileAddr + rowInTile*2 - 0x8000)
	hi := p.vram.Read(tileAddr + rowInTile*2 + 1 - 0x8000)

	bit := uint(7 - (px % 8))
	lowBit := (lo >> bit) & 1
	highBit := (hi >> bit) & 1
	return lowBit | highBit<<1
}

// tileDataAddress resolves a tile index to its VRAM address under LCDC's
// tile-data-area bit: unsigned indexing bases at 0x8000, signed indexing
// bases at 0x9000 and treats the index as signed (§4.4).
func (p *PPU) tileDataAddress(index uint8) uint16 {
	if p.lcdc.tileDataUnsigned() {
		return 0x8000 + uint16(index)*16
	}
	return uint16(int32(0x9000) + int32(int8(index))*16)
}

// spritesOnLine returns up to 10 sprites that intersect the given scanline,
// in OAM order.
func (p *PPU) spritesOnLine(line int) []sprite {
	height := p.lcdc.spriteSize()
	var selected []sprite
	for i := uint8(0); i < 40 && len(selected) < 10; i++ {
		s := p.oam.sprite(i)
		if line >= s.y && line < s.y+height {
			selected = append(selected, s)
		}
	}
	return selected
}

// renderSprites composites sprite pixels over the just-rendered BG/window
// line, honoring per-sprite BG-over-OBJ priority and smallest-X-wins
// ordering among overlapping sprites (§4.4).
func (p *PPU) renderSprites(line int, bgColor *[Width]uint8) {
	sprites := p.spritesOnLine(line)
	height := p.lcdc.spriteSize()

	// Smallest X wins; ties break by OAM order (ascending index), which is
	// already the iteration order from spritesOnLine.
	for x := 0; x < Width; x++ {
		var best *sprite
		for i := range sprites {
			s := &sprites[i]
			if x < s.x || x >= s.x+8 {
				continue
			}
			if best == nil || s.x < best.x {
				best = s
			}
		}
		if best == nil {
			continue
		}

		rowInSprite := line - best.y
		if best.flipY {
			rowInSprite = height - 1 - rowInSprite
		}
		tile := best.tile
		if height == 16 {
			tile &^= 0x01
			if rowInSprite >= 8 {
				tile |= 0x01
				rowInSprite -= 8
			}
		}

		col := x - best.x
		if best.flipX {
			col = 7 - col
		}

		tileAddr := 0x8000 + uint16(tile)*16
		lo := p.vram.Read(tileAddr + uint16(rowInSprite)*2 - 0x8000)
		hi := p.vram.Read(tileAddr + uint16(rowInSprite)*2 + 1 - 0x8000)
		bit := uint(7 - col)
		raw := (lo>>bit)&1 | ((hi>>bit)&1)<<1
		if raw == 0 {
			continue // sprite color 0 is transparent
		}
		if best.priority && bgColor[x] != 0 {
			continue // BG-over-OBJ and BG isn't color 0
		}

		pal := &p.obp0
		if best.palette == 1 {
			pal = &p.obp1
		}
		p.back[line][x] = pal.shade(raw)
	}
}
