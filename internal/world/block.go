package world

// Block is the material stored in one voxel. Air (0) is empty; every other
// value selects a row of tiles in the texture atlas.
type Block uint8

const (
	Air Block = iota
	Grass
	Dirt
	Stone
	Brick
	Wood
	Leaves
	Water
	Sand
	Planks
	Gravel
	Bedrock

	// NumBlocks is the number of block kinds, Air included.
	NumBlocks
)

type blockInfo struct {
	name   string
	solid  bool // blocks player movement
	opaque bool // every texel is fully opaque
}

var blockTable = [NumBlocks]blockInfo{
	Air:     {name: "air"},
	Grass:   {name: "grass", solid: true, opaque: true},
	Dirt:    {name: "dirt", solid: true, opaque: true},
	Stone:   {name: "stone", solid: true, opaque: true},
	Brick:   {name: "brick", solid: true, opaque: true},
	Wood:    {name: "wood", solid: true, opaque: true},
	Leaves:  {name: "leaves", solid: true},
	Water:   {name: "water", opaque: true},
	Sand:    {name: "sand", solid: true, opaque: true},
	Planks:  {name: "planks", solid: true, opaque: true},
	Gravel:  {name: "gravel", solid: true, opaque: true},
	Bedrock: {name: "bedrock", solid: true, opaque: true},
}

// Valid reports whether b is a known block kind.
func (b Block) Valid() bool { return b < NumBlocks }

// Empty reports whether b is air.
func (b Block) Empty() bool { return b == Air }

// Solid reports whether b stops player movement.
func (b Block) Solid() bool { return b.Valid() && blockTable[b].solid }

// Opaque reports whether every texel of b is fully opaque.
func (b Block) Opaque() bool { return b.Valid() && blockTable[b].opaque }

func (b Block) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return blockTable[b].name
}

// Face identifies which side of a cell a ray entered through.
type Face uint8

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth // -Z
	FaceSouth // +Z
	FaceWest  // -X
	FaceEast  // +X

	NumFaces
)

// TileRow maps a face to the tile used for it: 0 top, 1 side, 2 bottom.
func (f Face) TileRow() int {
	switch f {
	case FaceTop:
		return 0
	case FaceBottom:
		return 2
	default:
		return 1
	}
}

func (f Face) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceWest:
		return "west"
	case FaceEast:
		return "east"
	}
	return "none"
}
