// File path: internal/hip/parser.go
package hip

import (
	"regexp"
	"strings"

	"github.com/houdini-kb/hipcore/internal/archive"
)

var (
	hipVersionRe = regexp.MustCompile(`(?i)(houdini_version|_HIP_SAVEVERSION)\s*=?\s*["']?(\d+\.\d+(?:\.\d+)?)`)
	saveTimeRe   = regexp.MustCompile(`(?i)(_HIP_SAVETIME|hip_savetime)\s*=?\s*["']?([^"'\n]+)`)
	metadataRe   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\s*=\s*(?:"([^"]*)"|(.+))$`)

	typeRe  = regexp.MustCompile(`^type\s*=\s*(\S+)`)
	nameRe  = regexp.MustCompile(`^name\s*=?\s*(\S+)`)
	flagsRe = regexp.MustCompile(`^flags\s*=\s*(.+)`)

	parmNameRe  = regexp.MustCompile(`^name\s+(\S+)`)
	parmValueRe = regexp.MustCompile(`^(?:default\s+)?value\s+(.+)$`)
	parmExprRe  = regexp.MustCompile(`^expression\s+(.+)$`)
)

var headerFilenames = map[string]bool{
	".hip":           true,
	"Houdini":        true,
	".OPfallbacks":   true,
	"houdini.hip":    true,
}

// Parse consumes a raw archive buffer — gzip-wrapped, optionally
// Houdini-prefixed CPIO "newc" — and returns the reconstructed Scene. Only
// archive-format failures are returned as an error; everything about the
// node stanzas themselves is recovered leniently per spec.md §4.3 and §7.
func Parse(raw []byte) (Scene, error) {
	entries, err := archive.Read(raw)
	if err != nil {
		return Scene{}, err
	}
	textEntries := archive.TextEntries(entries)
	return ParseEntries(textEntries), nil
}

// ParseEntries builds a Scene from already-decoded text entries. The parser
// never fails: malformed stanzas are dropped and whatever parsed
// successfully is returned.
func ParseEntries(entries []archive.Entry) Scene {
	scene := Scene{Metadata: map[string]string{}}

	var headerText strings.Builder
	var others []archive.Entry
	for _, e := range entries {
		if isHeaderFilename(e.Path) {
			headerText.Write(e.Data)
			headerText.WriteByte('\n')
		} else {
			others = append(others, e)
		}
	}

	parseHeaderMetadata(headerText.String(), &scene)
	if scene.HoudiniVersion == "" {
		for _, e := range others {
			if m := hipVersionRe.FindStringSubmatch(string(e.Data)); len(m) > 2 {
				scene.HoudiniVersion = m[2]
				break
			}
		}
	}

	for _, e := range others {
		parseNodeEntry(e, &scene)
	}
	return scene
}

func isHeaderFilename(filename string) bool {
	if headerFilenames[filename] {
		return true
	}
	return strings.HasSuffix(filename, ".def")
}

func parseHeaderMetadata(text string, scene *Scene) {
	if text == "" {
		return
	}
	if m := hipVersionRe.FindStringSubmatch(text); len(m) > 2 {
		scene.HoudiniVersion = m[2]
	}
	if m := saveTimeRe.FindStringSubmatch(text); len(m) > 2 {
		scene.SaveTime = strings.TrimSpace(m[2])
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := metadataRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := m[1]
		value := m[2]
		if value == "" && m[3] != "" {
			value = strings.TrimSpace(m[3])
		}
		scene.Metadata[key] = value
	}
}

type parserState int

const (
	stateTop parserState = iota
	stateInParm
)

// entryParser walks one text entry line by line, accumulating at most one
// in-progress Node and Parameter at a time.
type entryParser struct {
	scene      *Scene
	basePath   string
	filename   string
	state      parserState
	braceDepth int

	node    *Node
	param   *Parameter
}

func parseNodeEntry(e archive.Entry, scene *Scene) {
	p := &entryParser{
		scene:    scene,
		basePath: deriveBasePath(e.Path),
		filename: e.Path,
		state:    stateTop,
	}
	for _, rawLine := range strings.Split(string(e.Data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		switch p.state {
		case stateTop:
			p.handleTop(line)
		case stateInParm:
			p.handleInParm(line)
		}
	}
	p.flushNode()
}

func deriveBasePath(filename string) string {
	normalized := strings.ReplaceAll(filename, "\\", "/")
	normalized = strings.TrimPrefix(normalized, "./")
	normalized = strings.TrimPrefix(normalized, "/")
	return "/" + normalized
}

func (p *entryParser) handleTop(line string) {
	if m := typeRe.FindStringSubmatch(line); m != nil {
		p.flushNode()
		p.node = &Node{
			Path:     p.basePath,
			Type:     m[1],
			Category: inferCategory(m[1], p.filename),
			Flags:    map[string]bool{},
		}
		return
	}
	if p.node == nil {
		return
	}
	if m := nameRe.FindStringSubmatch(line); m != nil {
		p.node.Name = m[1]
		p.node.Path = p.basePath + "/" + m[1]
		return
	}
	if m := flagsRe.FindStringSubmatch(line); m != nil {
		parseFlags(m[1], p.node.Flags)
		return
	}
	if line == "parm {" || line == "parm\t{" {
		p.state = stateInParm
		p.braceDepth = 1
		p.param = &Parameter{IsDefault: true}
		return
	}
	if strings.HasPrefix(line, "wire ") || strings.HasPrefix(line, "input ") {
		if conn, ok := parseConnectionLine(line, p.basePath); ok {
			p.scene.Connections = append(p.scene.Connections, conn)
		}
		return
	}
}

func (p *entryParser) handleInParm(line string) {
	p.braceDepth += strings.Count(line, "{")
	p.braceDepth -= strings.Count(line, "}")
	if p.braceDepth <= 0 {
		p.finishParam()
		return
	}
	if m := parmNameRe.FindStringSubmatch(line); m != nil {
		p.param.Name = m[1]
		return
	}
	if m := parmValueRe.FindStringSubmatch(line); m != nil {
		p.param.Value = coerceValue(m[1])
		return
	}
	if strings.Contains(line, "parmdef") || strings.Contains(line, "default {") {
		p.param.IsDefault = false
		return
	}
	if m := parmExprRe.FindStringSubmatch(line); m != nil {
		p.param.Expression = strings.TrimSpace(m[1])
		p.param.IsDefault = false
		return
	}
}

func (p *entryParser) finishParam() {
	if p.param != nil && p.param.Name != "" && p.node != nil {
		p.node.Parameters = append(p.node.Parameters, *p.param)
	}
	p.param = nil
	p.state = stateTop
	p.braceDepth = 0
}

func (p *entryParser) flushNode() {
	if p.state == stateInParm {
		p.finishParam()
	}
	if p.node != nil && p.node.Type != "" {
		p.scene.Nodes = append(p.scene.Nodes, *p.node)
	}
	p.node = nil
}

func parseFlags(raw string, dst map[string]bool) {
	for _, tok := range strings.Fields(raw) {
		if k, v, ok := strings.Cut(tok, "="); ok {
			dst[k] = isTruthyFlag(v)
		} else {
			dst[tok] = true
		}
	}
}

func isTruthyFlag(v string) bool {
	switch strings.ToLower(v) {
	case "1", "on", "true":
		return true
	default:
		return false
	}
}

