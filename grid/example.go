package grid

// Tile ids used by the example map. They match the default palette.
const (
	Empty = 0
	Grass = 1
	Dirt  = 2
	Water = 3
	Rock  = 4
)

// Example draws the illustrative map: a rock border, a dirt strip in the
// middle band of large maps, sparse diagonal water and grass elsewhere.
func Example(x, y, width, height int) int {
	switch {
	case y == 0 || y == height-1 || x == 0 || x == width-1:
		return Rock
	case y > 20 && y < 25 && x > 30 && x < 70:
		return Dirt
	case (x+y)%10 == 0:
		return Water
	default:
		return Grass
	}
}

// Blank leaves every cell empty.
func Blank(x, y, width, height int) int { return Empty }
