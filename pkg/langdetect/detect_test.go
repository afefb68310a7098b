package langdetect_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/eflint/pkg/langdetect"
)

func TestIsCSharpPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"Orders.cs", true},
		{"src/Data/SalesContext.cs", true},
		{"Orders.CS", true},
		{"Views/Index.cshtml", false},
		{"README.md", false},
		{"Orders.cs.bak", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.IsCSharpPath(tt.path); got != tt.want {
				t.Errorf("IsCSharpPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsVendored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/lib/index.cs", true},
		{"packages/EntityFramework.6.4.4/content/Model.cs", true},
		{"src/Packages/Model.cs", true},
		{"src/Data/Orders.cs", false},
		{"src/PackageService.cs", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.IsVendored(tt.path); got != tt.want {
				t.Errorf("IsVendored(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsGenerated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		want    bool
	}{
		{
			name: "designer file",
			path: "Forms/Main.Designer.cs",
			want: true,
		},
		{
			name: "source generator output",
			path: "obj/Debug/Model.g.cs",
			want: true,
		},
		{
			name:    "auto-generated header",
			path:    "Migrations/Initial.cs",
			content: "//------------------------------------------------------------------------------\n// <auto-generated>\n//     This code was generated by a tool.\n// </auto-generated>\n",
			want:    true,
		},
		{
			name:    "GeneratedCode attribute",
			path:    "Reference.cs",
			content: "[System.CodeDom.Compiler.GeneratedCode(\"svcutil\", \"4.0\")]\npublic class Client { }\n",
			want:    true,
		},
		{
			name:    "hand-written source",
			path:    "Data/Orders.cs",
			content: "using System.Linq;\n\nclass Orders { }\n",
			want:    false,
		},
		{
			name: "name only",
			path: "Data/Orders.cs",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var content []byte
			if tt.content != "" {
				content = []byte(tt.content)
			}
			if got := langdetect.IsGenerated(tt.path, content); got != tt.want {
				t.Errorf("IsGenerated(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsGenerated_MarkerOutsideHeader(t *testing.T) {
	t.Parallel()

	content := "class Orders { }\n" + strings.Repeat("// padding\n", 200) + "// <auto-generated>\n"
	if langdetect.IsGenerated("Orders.cs", []byte(content)) {
		t.Error("markers past the header should be ignored")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		content string
		want    langdetect.Kind
	}{
		{"Data/Orders.cs", "class Orders { }\n", langdetect.KindSource},
		{"docs/index.md", "# docs\n", langdetect.KindOther},
		{"node_modules/x/Orders.cs", "class Orders { }\n", langdetect.KindVendored},
		{"Data/Orders.Designer.cs", "class Orders { }\n", langdetect.KindGenerated},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.Classify(tt.path, []byte(tt.content)); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if langdetect.KindGenerated.String() != "generated" {
		t.Errorf("KindGenerated.String() = %q", langdetect.KindGenerated.String())
	}
	if langdetect.Kind(42).String() != "unknown" {
		t.Errorf("Kind(42).String() = %q", langdetect.Kind(42).String())
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	if got := langdetect.Detect("src/Orders.cs", []byte("using System.Linq;\n\nclass Orders { }\n")); got != langdetect.CSharp {
		t.Errorf("Detect() = %q, want %q", got, langdetect.CSharp)
	}
}
