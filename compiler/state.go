package compiler

// Segment is the source region currently being assembled.
type Segment int

const (
	CodeSegment Segment = iota
	DataSegment
)

func (s Segment) String() string {
	if s == DataSegment {
		return "data"
	}
	return "code"
}

// BuildTarget is the output format declared by the #build directive.
type BuildTarget int

const (
	BuildUndefined BuildTarget = iota
	BuildSPS
)

func (b BuildTarget) String() string {
	if b == BuildSPS {
		return "sps"
	}
	return "undefined"
}

// buildTargets maps #build operands to targets.
var buildTargets = map[string]BuildTarget{
	"sps": BuildSPS,
}

// State is the directive-controlled state of one compilation.
type State struct {
	Segment     Segment
	BuildTarget BuildTarget
}
