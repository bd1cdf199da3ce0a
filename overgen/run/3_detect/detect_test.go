package detect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	. "github.com/onsi/gomega"

	detect "github.com/toejough/overrider/overgen/run/3_detect"
)

const serviceSrc = `package service

import "time"

type Base struct{}

func (Base) Name() string { return "base" }

func (b *Base) Wait(d time.Duration) {}

type Service struct {
	Base
	*Counter
	label string
}

func (s *Service) Get(n int) int { return n }

func (s Service) Name() string { return "service" }

func (s *Service) hidden() {}

type Counter int

func (c *Counter) Inc() { *c++ }

type Greeter interface {
	Named
	Greet(name string) string
}

type Named interface {
	Name() string
}

type Box[T any] struct{ v T }

func (b *Box[T]) Get() T { return b.v }
`

func TestFindType_Kinds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	files := parseFiles(t, serviceSrc)

	details, err := detect.FindType(files, "Service")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(details.Kind).To(Equal(detect.KindStruct))
	g.Expect(details.PkgName).To(Equal("service"))
	g.Expect(details.SourceImports).To(HaveLen(1))
	g.Expect(details.IsGeneric()).To(BeFalse())

	details, err = detect.FindType(files, "Greeter")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(details.Kind).To(Equal(detect.KindInterface))

	details, err = detect.FindType(files, "Counter")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(details.Kind).To(Equal(detect.KindNamed))

	details, err = detect.FindType(files, "Box")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(details.IsGeneric()).To(BeTrue())

	_, err = detect.FindType(files, "Missing")
	g.Expect(err).To(MatchError(detect.ErrTypeNotFound))
}

func TestCollectMethods_StructWithEmbedding(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	methods := detect.CollectMethods(parseFiles(t, serviceSrc), "Service")

	g.Expect(detect.MethodNames(methods)).To(Equal([]string{"Get", "Inc", "Name", "Wait", "hidden"}))
	g.Expect(methods["Get"].Promoted).To(BeFalse())
	g.Expect(methods["Wait"].Promoted).To(BeTrue())
	g.Expect(methods["Inc"].Promoted).To(BeTrue())
	g.Expect(methods["hidden"].Exported()).To(BeFalse())
	g.Expect(methods["Wait"].Imports).To(HaveLen(1))
}

// TestCollectMethods_DeclaredWinsOverPromoted verifies a method declared on the
// type shadows the one it would inherit.
func TestCollectMethods_DeclaredWinsOverPromoted(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	methods := detect.CollectMethods(parseFiles(t, serviceSrc), "Service")

	g.Expect(methods["Name"].Promoted).To(BeFalse())
	g.Expect(methods["Name"].FuncType.Results.List).To(HaveLen(1))
}

func TestCollectMethods_Interface(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	methods := detect.CollectMethods(parseFiles(t, serviceSrc), "Greeter")

	g.Expect(detect.MethodNames(methods)).To(Equal([]string{"Greet", "Name"}))
	g.Expect(methods["Name"].Promoted).To(BeTrue())
}

func TestCollectMethods_GenericReceiver(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(detect.MethodNames(detect.CollectMethods(parseFiles(t, serviceSrc), "Box"))).
		To(Equal([]string{"Get"}))
}

func TestCollectMethods_CyclicEmbedding(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	files := parseFiles(t, `package p

type A struct{ *B }

func (A) One() {}

type B struct{ *A }

func (B) Two() {}
`)

	g.Expect(detect.MethodNames(detect.CollectMethods(files, "A"))).To(Equal([]string{"One", "Two"}))
}

// TestCollectMethods_SkipsResolvedForeignEmbed verifies a type embedded from
// another package is not mistaken for a same-package type of the same name.
func TestCollectMethods_SkipsResolvedForeignEmbed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	files := parseFiles(t, `package p

type Stamp struct {
	Time
}

func (Stamp) Label() string { return "" }

type Time struct{}

func (Time) Local() string { return "" }
`)

	g.Expect(detect.MethodNames(detect.CollectMethods(files, "Stamp"))).To(Equal([]string{"Label", "Local"}))

	stamp := files[0].Decls[0].(*dst.GenDecl).Specs[0].(*dst.TypeSpec).Type.(*dst.StructType)
	stamp.Fields.List[0].Type.(*dst.Ident).Path = "time"

	g.Expect(detect.MethodNames(detect.CollectMethods(files, "Stamp"))).To(Equal([]string{"Label"}))
}

func TestSplitClass(t *testing.T) {
	t.Parallel()

	files := parseFiles(t, `package p

import (
	"net/http"
	svc "github.com/acme/services/integer"
)
`)

	tests := []struct {
		class    string
		wantPath string
		wantType string
	}{
		{class: "Service", wantPath: ".", wantType: "Service"},
		{class: "*Service", wantPath: ".", wantType: "Service"},
		{class: "http.Client", wantPath: "net/http", wantType: "Client"},
		{class: "svc.IntegerService", wantPath: "github.com/acme/services/integer", wantType: "IntegerService"},
		{class: "integer.IntegerService", wantPath: "integer", wantType: "IntegerService"},
		{class: "github.com/acme/x.Thing", wantPath: "github.com/acme/x", wantType: "Thing"},
		{class: "strings.Builder", wantPath: "strings", wantType: "Builder"},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			path, typeName := detect.SplitClass(tt.class, files)
			g.Expect(path).To(Equal(tt.wantPath))
			g.Expect(typeName).To(Equal(tt.wantType))
		})
	}
}

func TestImportPathForDir(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	sub := filepath.Join(root, "internal", "service")
	g.Expect(os.MkdirAll(sub, 0o755)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/acme\n\ngo 1.23\n"), 0o600)).
		To(Succeed())

	path, err := detect.ImportPathForDir(sub)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(path).To(Equal("example.com/acme/internal/service"))

	path, err = detect.ImportPathForDir(root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(path).To(Equal("example.com/acme"))

	foundRoot, err := detect.FindProjectRoot(sub)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(foundRoot).To(Equal(root))
}

func TestImportPathForDir_NoModuleDirective(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(root, "go.mod"), []byte("go 1.23\n"), 0o600)).To(Succeed())

	_, err := detect.ImportPathForDir(root)
	g.Expect(err).To(MatchError(detect.ErrProjectRootNotFound))
}

func TestTypeKind_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(detect.KindStruct.String()).To(Equal("struct"))
	g.Expect(detect.KindInterface.String()).To(Equal("interface"))
	g.Expect(detect.KindNamed.String()).To(Equal("named type"))
	g.Expect(detect.TypeKind(9).String()).To(Equal("TypeKind(9)"))
}

func parseFiles(t *testing.T, sources ...string) []*dst.File {
	t.Helper()

	files := make([]*dst.File, 0, len(sources))

	for _, src := range sources {
		file, err := decorator.Parse(src)
		if err != nil {
			t.Fatalf("failed to parse source: %v", err)
		}

		files = append(files, file)
	}

	return files
}

func TestImportPathForDir_StandardLibrary(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	sub := filepath.Join(root, "net", "http")
	g.Expect(os.MkdirAll(sub, 0o755)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "go.mod"), []byte("module std\n\ngo 1.25\n"), 0o600)).To(Succeed())

	path, err := detect.ImportPathForDir(sub)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(path).To(Equal("net/http"))
}
