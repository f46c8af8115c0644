package component

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/olxtools/olx2lia/internal/olx"
)

// VideoType is the structurally-detected subtype of a video component.
type VideoType string

const (
	YouTube      VideoType = "youtube"
	External     VideoType = "external"
	UnknownVideo VideoType = "unknown"
)

type Video struct {
	Name string
	Type VideoType
	Node *olx.Node
}

func ParseVideo(fsys fs.FS, id string) (IR, error) {
	node, err := olx.LoadNode(fsys, path.Join("video", id+".xml"))
	if err != nil {
		return nil, fmt.Errorf("read video: %w", err)
	}
	name := node.Attr("display_name")
	if name == "" {
		name = id
	}
	return &Video{Name: name, Type: DetectVideoType(node), Node: node}, nil
}

// DetectVideoType: a youtube attribute wins, then a url_name attribute
// (an externally hosted URL), else unknown.
func DetectVideoType(node *olx.Node) VideoType {
	if node.HasAttr("youtube") {
		return YouTube
	}
	if node.HasAttr("url_name") {
		return External
	}
	return UnknownVideo
}

func (v *Video) DisplayName() string { return v.Name }

func (v *Video) Render() string {
	switch v.Type {
	case YouTube:
		// The youtube attribute is a colon-separated speed:id list; the
		// second field is the video id.
		fields := strings.Split(v.Node.Attr("youtube"), ":")
		if len(fields) < 2 || fields[1] == "" {
			return fmt.Sprintf("**Video %q: video id could not be extracted.**", v.Name)
		}
		return fmt.Sprintf("!?[%s](https://www.youtube.com/watch?v=%s)", v.Name, fields[1])
	case External:
		return fmt.Sprintf("!?[%s](%s)", v.Name, v.Node.Attr("url_name"))
	default:
		return fmt.Sprintf("**Video %q: video type is not supported.**", v.Name)
	}
}
