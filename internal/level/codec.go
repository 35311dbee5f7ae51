package level

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/cespare/xxhash/v2"
)

var ErrMalformed = errors.New("malformed level record")

const (
	placementFields = 4
	enemyFields     = 14
	playerFields    = 11
)

// Decode reads level records until EOF. Blank lines and lines starting with
// '#' are skipped. Decoding stops at the first bad record: the records read
// so far are returned together with an error wrapping ErrMalformed.
func Decode(r io.Reader) (*Level, error) {
	lvl := &Level{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := decodeRecord(lvl, strings.Fields(text)); err != nil {
			return lvl, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return lvl, fmt.Errorf("read level: %w", err)
	}
	return lvl, nil
}

// Unmarshal decodes a level held in memory.
func Unmarshal(raw []byte) (*Level, error) {
	return Decode(bytes.NewReader(raw))
}

func decodeRecord(lvl *Level, f []string) error {
	kind := f[0]
	switch {
	case strings.EqualFold(kind, "Player"):
		if len(f) != playerFields {
			return fieldCount(kind, playerFields, len(f))
		}
		p := fieldParser{fields: f}
		pl := &Player{
			X:         p.int(1),
			Y:         p.int(2),
			Collision: geom.Vec2{X: p.float(3), Y: p.float(4)},
			Speed:     geom.Vec2{X: p.float(5), Y: p.float(6)},
			MaxSpeed:  p.float(7),
			Gravity:   p.float(8),
			Health:    p.float(9),
			Weapon:    f[10],
		}
		if p.err != nil {
			return p.err
		}
		lvl.Player = pl
	case strings.EqualFold(kind, "Enemy"):
		if len(f) != enemyFields {
			return fieldCount(kind, enemyFields, len(f))
		}
		p := fieldParser{fields: f}
		attack, ok := component.ParseAttackType(f[11])
		if !ok {
			return fmt.Errorf("unknown attack type %q: %w", f[11], ErrMalformed)
		}
		e := Enemy{
			Type:        f[1],
			Animation:   f[2],
			X:           p.int(3),
			Y:           p.int(4),
			Collision:   geom.Vec2{X: p.float(5), Y: p.float(6)},
			Speed:       geom.Vec2{X: p.float(7), Y: p.float(8)},
			Health:      p.float(9),
			Damage:      p.float(10),
			Attack:      attack,
			AttackDelay: p.int(12),
			Gravity:     p.float(13),
		}
		if p.err != nil {
			return p.err
		}
		lvl.Enemies = append(lvl.Enemies, e)
	default:
		tag, ok := component.ParseTag(kind)
		if !ok || !IsPlacementTag(tag) {
			return fmt.Errorf("unknown record %q: %w", kind, ErrMalformed)
		}
		if len(f) != placementFields {
			return fieldCount(kind, placementFields, len(f))
		}
		p := fieldParser{fields: f}
		pl := Placement{Tag: tag, Animation: f[1], X: p.int(2), Y: p.int(3)}
		if p.err != nil {
			return p.err
		}
		lvl.Placements = append(lvl.Placements, pl)
	}
	return nil
}

func fieldCount(kind string, want, got int) error {
	return fmt.Errorf("%s record has %d fields, want %d: %w", kind, got, want, ErrMalformed)
}

// fieldParser keeps the first conversion error so a record can be parsed
// in one expression.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) int(i int) int {
	v, err := strconv.Atoi(p.fields[i])
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("field %d %q: %w", i, p.fields[i], ErrMalformed)
	}
	return v
}

func (p *fieldParser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("field %d %q: %w", i, p.fields[i], ErrMalformed)
	}
	return v
}

// Encode writes the player record first, then placements, then enemies.
func Encode(w io.Writer, lvl *Level) error {
	bw := bufio.NewWriter(w)
	if p := lvl.Player; p != nil {
		fmt.Fprintf(bw, "Player %d %d %s %s %s %s %s %s %s %s\n",
			p.X, p.Y,
			ftoa(p.Collision.X), ftoa(p.Collision.Y),
			ftoa(p.Speed.X), ftoa(p.Speed.Y),
			ftoa(p.MaxSpeed), ftoa(p.Gravity), ftoa(p.Health), p.Weapon)
	}
	for _, pl := range lvl.Placements {
		fmt.Fprintf(bw, "%s %s %d %d\n", component.TagName(pl.Tag), pl.Animation, pl.X, pl.Y)
	}
	for _, e := range lvl.Enemies {
		fmt.Fprintf(bw, "Enemy %s %s %d %d %s %s %s %s %s %s %s %d %s\n",
			e.Type, e.Animation, e.X, e.Y,
			ftoa(e.Collision.X), ftoa(e.Collision.Y),
			ftoa(e.Speed.X), ftoa(e.Speed.Y),
			ftoa(e.Health), ftoa(e.Damage),
			e.Attack, e.AttackDelay, ftoa(e.Gravity))
	}
	return bw.Flush()
}

// Marshal encodes a level into memory.
func Marshal(lvl *Level) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, lvl)
	return buf.Bytes()
}

// Checksum is the xxhash of the encoded level.
func Checksum(lvl *Level) uint64 {
	return xxhash.Sum64(Marshal(lvl))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
