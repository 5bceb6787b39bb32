package magnetic

import "testing"

const sampleScript = `
// regions for the Kp widget
var defreg = "RAL5";
var reglist = [
  ["RAL5","Москва","moscow","55.75N 37.62E"],
  ["RAL1","Санкт-Петербург","spb","59.94N 30.31E"],
  ["BAD1","missing fields"],
  ["RAL9","Норильск","norilsk","69.35N 88.20E"],
  ["TOO","many","fields","here","extra"],
  [ "RAL7" , "Мурманск" , "murmansk" , "68.97N 33.09E" ],
  [RAL8, "unquoted", "x", "y"]
];
function pick(code) { return reglist.find(r => r[0] === code); }
`

func TestParseRegions_ValidAmongMalformed(t *testing.T) {
	got := ParseRegions(sampleScript)
	if len(got) != 4 {
		t.Fatalf("want 4 regions, got %d: %+v", len(got), got)
	}
	r, ok := got["RAL5"]
	if !ok {
		t.Fatalf("RAL5 missing")
	}
	want := Region{Code: "RAL5", Name: "Москва", Alias: "moscow", Geo: "55.75N 37.62E"}
	if r != want {
		t.Fatalf("want %+v, got %+v", want, r)
	}
	for _, code := range []string{"RAL1", "RAL9", "RAL7"} {
		if _, ok := got[code]; !ok {
			t.Fatalf("%s missing", code)
		}
	}
	for _, code := range []string{"BAD1", "TOO", "RAL8"} {
		if _, ok := got[code]; ok {
			t.Fatalf("malformed entry %s must be skipped", code)
		}
	}
}

func TestParseRegions_NoListLiteral(t *testing.T) {
	if got := ParseRegions(`var other = [["A","b","c","d"]];`); len(got) != 0 {
		t.Fatalf("want empty, got %+v", got)
	}
	if got := ParseRegions(""); len(got) != 0 {
		t.Fatalf("want empty, got %+v", got)
	}
	if got := ParseRegions(`var reglist = [["A","b","c","d"]`); len(got) != 0 {
		t.Fatalf("unterminated list must yield empty, got %+v", got)
	}
}

func TestParseRegions_QuotesAndBracketsInNames(t *testing.T) {
	script := `var reglist = [["Q1","Station \"North\" [test]","al\/ias","it\'s °N"],["Q2","a\\","b","c"]];`
	got := ParseRegions(script)
	if len(got) != 2 {
		t.Fatalf("want 2 regions, got %+v", got)
	}
	if r := got["Q1"]; r.Name != `Station "North" [test]` || r.Alias != "al/ias" || r.Geo != "it's °N" {
		t.Fatalf("unexpected Q1: %+v", r)
	}
	if r := got["Q2"]; r.Name != `a\` {
		t.Fatalf("unexpected Q2: %+v", r)
	}
}

func TestParseRegions_EmptyCodeSkipped(t *testing.T) {
	got := ParseRegions(`var reglist = [["","nameless","x","y"],["R","n","a","g"]];`)
	if len(got) != 1 || got["R"].Name != "n" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestParseRegions_TupleAfterListIgnored(t *testing.T) {
	got := ParseRegions(`var reglist = [["R","n","a","g"]]; var extra = [["X","n","a","g"]];`)
	if _, ok := got["X"]; ok || len(got) != 1 {
		t.Fatalf("tuples outside the list must be ignored: %+v", got)
	}
}

func TestParseRegions_MalformedEntryKeepsNeighbours(t *testing.T) {
	for name, bad := range map[string]string{
		"stray quote":   `["BAD","x"y","z","w"]`,
		"unclosed list": `["BAD","x","y",`,
		"stray bracket": `"BAD","x"]`,
	} {
		t.Run(name, func(t *testing.T) {
			got := ParseRegions(`var reglist = [["R1","a","b","c"],` + bad + `,["R2","a","b","c"]];`)
			if len(got) != 2 {
				t.Fatalf("want R1 and R2, got %+v", got)
			}
			if _, ok := got["R1"]; !ok {
				t.Fatalf("R1 missing: %+v", got)
			}
			if _, ok := got["R2"]; !ok {
				t.Fatalf("R2 missing: %+v", got)
			}
		})
	}
}
