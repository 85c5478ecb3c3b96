// File path: internal/hip/parser_test.go
package hip

import (
	"testing"

	"github.com/houdini-kb/hipcore/internal/archive"
)

func entry(path, body string) archive.Entry {
	return archive.Entry{Path: path, Size: int64(len(body)), Data: []byte(body)}
}

func TestParseEntriesTwoNodePyroScene(t *testing.T) {
	body := "type = pyrosolver::2.0\n" +
		"name = pyro_solver1\n" +
		"parm {\n" +
		"  name dissipation\n" +
		"  value 0.05\n" +
		"}\n" +
		"parm {\n" +
		"  name cooling_rate\n" +
		"  value 0.3\n" +
		"  parmdef\n" +
		"}\n"
	scene := ParseEntries([]archive.Entry{entry("obj/geo1/pyro_solver1", body)})

	if len(scene.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(scene.Nodes))
	}
	node := scene.Nodes[0]
	if node.Path != "/obj/geo1/pyro_solver1/pyro_solver1" {
		t.Errorf("unexpected path: %s", node.Path)
	}
	if node.Type != "pyrosolver::2.0" {
		t.Errorf("unexpected type: %s", node.Type)
	}
	if node.Category != CategoryDOP {
		t.Errorf("expected DOP category, got %s", node.Category)
	}
	if len(node.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(node.Parameters))
	}
	diss := node.Parameters[0]
	if diss.Name != "dissipation" || diss.Value.Kind != ValueFloat || diss.Value.Float != 0.05 || !diss.IsDefault {
		t.Errorf("unexpected dissipation parameter: %+v", diss)
	}
	cooling := node.Parameters[1]
	if cooling.Name != "cooling_rate" || cooling.Value.Kind != ValueFloat || cooling.Value.Float != 0.3 || cooling.IsDefault {
		t.Errorf("unexpected cooling_rate parameter: %+v", cooling)
	}
}

func TestParseEntriesConnectionExtraction(t *testing.T) {
	body := "type = merge\n" +
		"name = merge1\n" +
		"wire /obj/geo1/a 0 /obj/geo1/merge1 1\n"
	scene := ParseEntries([]archive.Entry{entry("obj/geo1/merge", body)})

	if len(scene.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(scene.Connections))
	}
	conn := scene.Connections[0]
	want := Connection{From: "/obj/geo1/a", FromOutput: 0, To: "/obj/geo1/merge1", ToInput: 1}
	if conn != want {
		t.Errorf("unexpected connection: %+v, want %+v", conn, want)
	}
}

func TestParseEntriesInputForm(t *testing.T) {
	body := "type = merge\n" +
		"name = merge1\n" +
		"input 1 ../a 0\n"
	scene := ParseEntries([]archive.Entry{entry("obj/geo1/merge", body)})
	if len(scene.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(scene.Connections))
	}
	conn := scene.Connections[0]
	if conn.To != "/obj/geo1/merge" || conn.From != "/obj/geo1/merge/../a" || conn.ToInput != 1 || conn.FromOutput != 0 {
		t.Errorf("unexpected connection: %+v", conn)
	}
}

func TestParseEntriesMalformedStanzaIsDropped(t *testing.T) {
	body := "type = merge\n" +
		"name = merge1\n" +
		"parm {\n" +
		"  value orphaned\n" + // no name line -> dropped
		"}\n"
	scene := ParseEntries([]archive.Entry{entry("obj/geo1/merge", body)})
	if len(scene.Nodes) != 1 {
		t.Fatalf("expected node to survive malformed parm, got %d nodes", len(scene.Nodes))
	}
	if len(scene.Nodes[0].Parameters) != 0 {
		t.Errorf("expected malformed parameter to be dropped, got %+v", scene.Nodes[0].Parameters)
	}
}

func TestParseEntriesFlags(t *testing.T) {
	body := "type = merge\n" +
		"name = merge1\n" +
		"flags = display on bypass=0 template=1\n"
	scene := ParseEntries([]archive.Entry{entry("obj/geo1/merge", body)})
	flags := scene.Nodes[0].Flags
	if !flags["display"] {
		t.Error("expected display flag true")
	}
	if flags["bypass"] {
		t.Error("expected bypass flag false")
	}
	if !flags["template"] {
		t.Error("expected template flag true")
	}
}

func TestParseEntriesNoEntriesYieldsEmptyScene(t *testing.T) {
	scene := ParseEntries(nil)
	if len(scene.Nodes) != 0 || len(scene.Connections) != 0 {
		t.Errorf("expected empty scene, got %+v", scene)
	}
}

func TestParseHeaderMetadataVersionAndSaveTime(t *testing.T) {
	scene := ParseEntries([]archive.Entry{
		entry(".hip", "_HIP_SAVEVERSION = \"19.5.435\"\n_HIP_SAVETIME = \"Wed Jan 21 10:00:00 2026\"\nfoo = bar\n"),
	})
	if scene.HoudiniVersion != "19.5.435" {
		t.Errorf("unexpected version: %s", scene.HoudiniVersion)
	}
	if scene.SaveTime != "Wed Jan 21 10:00:00 2026" {
		t.Errorf("unexpected save time: %s", scene.SaveTime)
	}
	if scene.Metadata["foo"] != "bar" {
		t.Errorf("unexpected metadata: %+v", scene.Metadata)
	}
}

func TestParseHeaderMetadataFallsBackToOtherEntries(t *testing.T) {
	scene := ParseEntries([]archive.Entry{
		entry("obj/geo1/box1", "houdini_version = \"18.0\"\ntype = box\nname = box1\n"),
	})
	if scene.HoudiniVersion != "18.0" {
		t.Errorf("expected version fallback scan to find version, got %q", scene.HoudiniVersion)
	}
	if len(scene.Nodes) != 1 || scene.Nodes[0].Type != "box" {
		t.Errorf("unexpected nodes: %+v", scene.Nodes)
	}
}

func TestEveryNodePathStartsWithSlash(t *testing.T) {
	scene := ParseEntries([]archive.Entry{
		entry("obj/geo1/box1", "type = box\nname = box1\n"),
		entry("sop/geo1/scatter1", "type = scatter\n"),
	})
	for _, n := range scene.Nodes {
		if n.Path[0] != '/' {
			t.Errorf("node path %q does not start with /", n.Path)
		}
	}
}
