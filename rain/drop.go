package rain

// MaxSpeed is the slowest speed class; a drop with speed s moves every s frames
const MaxSpeed = 3

// FramePeriod is lcm(1..=MaxSpeed), the frame counter wraps here so every speed class
// stays in phase across the wrap
const FramePeriod = 6

// Drop is the falling head of one column
type Drop struct {
	Pos   int // Head row, negative while above the viewport
	Speed int // Frames per row step, in [1, MaxSpeed]
}

// spawnDrops places one drop per column between one tail length and one screenful
// above the top, giving a blank opening and a staggered onset
func spawnDrops(dst []Drop, width, height, tail int, rng *FastRand) []Drop {
	dst = dst[:0]
	for range width {
		dst = append(dst, Drop{
			Pos:   -rng.IntN(height + tail),
			Speed: 1 + rng.IntN(MaxSpeed),
		})
	}
	return dst
}

// advance steps the drop on frames divisible by its speed
// Returns true when the head passed height+tail and was wrapped back above the top
func (d *Drop) advance(frame, height, tail int) bool {
	if frame%d.Speed != 0 {
		return false
	}
	d.Pos++
	if d.Pos > height+tail {
		d.Pos -= 2 * height
		return true
	}
	return false
}
