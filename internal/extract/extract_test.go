package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/phobologic/intlextract/internal/lang"
	"github.com/phobologic/intlextract/internal/message"
	"github.com/phobologic/intlextract/internal/parse"
)

func extractJS(t *testing.T, source string, cfg Config) (map[string]*message.Message, []Warning) {
	t.Helper()
	l := lang.Languages["javascript"]
	if l == nil {
		t.Fatal("javascript not registered")
	}
	tree, diags, err := parse.Parse(l.NewParser(), []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(diags) > 0 {
		t.Fatalf("syntax diagnostics: %v", diags)
	}
	t.Cleanup(tree.Close)
	return Extract(tree, []byte(source), "test.js", cfg, nil)
}

func wantNoWarnings(t *testing.T, warnings []Warning) {
	t.Helper()
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func wantWarningContaining(t *testing.T, warnings []Warning, substr string) {
	t.Helper()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0].Reason, substr) {
		t.Fatalf("warning %q does not mention %q", warnings[0].Reason, substr)
	}
}

func TestSimpleMessage(t *testing.T) {
	t.Parallel()
	source := "function greet(name) {\n" +
		"  return Intl.message(`Hello ${name}`, {name: 'greet', args: [name]});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	rec := records["greet"]
	if rec == nil {
		t.Fatalf("no record named greet; got %v", records)
	}
	if rec.Kind != message.Simple {
		t.Errorf("kind = %q, want message", rec.Kind)
	}
	if !reflect.DeepEqual(rec.Arguments, []string{"name"}) {
		t.Errorf("arguments = %v, want [name]", rec.Arguments)
	}
	want := []message.Piece{message.Literal("Hello "), message.ArgIndex(0)}
	if !reflect.DeepEqual(rec.Pieces, want) {
		t.Errorf("pieces = %#v, want %#v", rec.Pieces, want)
	}
	if rec.Origin != "test.js" || rec.Line != 2 {
		t.Errorf("origin = %s:%d, want test.js:2", rec.Origin, rec.Line)
	}
}

func TestDirectPluralOnField(t *testing.T) {
	t.Parallel()
	source := "const count = Intl.plural(n, {zero: 'none', one: 'one item', other: `${n} items`});\n"
	records, warnings := extractJS(t, source, Config{GenerateNames: true})
	wantNoWarnings(t, warnings)
	rec := records["count"]
	if rec == nil {
		t.Fatalf("no record named count; got %v", records)
	}
	if rec.Kind != message.Plural {
		t.Errorf("kind = %q, want plural", rec.Kind)
	}
	if rec.MainArg != "n" {
		t.Errorf("main arg = %q, want n", rec.MainArg)
	}
	if !reflect.DeepEqual(rec.Arguments, []string{"n"}) {
		t.Errorf("arguments = %v, want [n]", rec.Arguments)
	}
	if !reflect.DeepEqual(rec.Cases["zero"], []message.Piece{message.Literal("none")}) {
		t.Errorf("zero case = %#v", rec.Cases["zero"])
	}
	if !reflect.DeepEqual(rec.Cases["one"], []message.Piece{message.Literal("one item")}) {
		t.Errorf("one case = %#v", rec.Cases["one"])
	}
	wantOther := []message.Piece{message.ArgIndex(0), message.Literal(" items")}
	if !reflect.DeepEqual(rec.Cases["other"], wantOther) {
		t.Errorf("other case = %#v, want %#v", rec.Cases["other"], wantOther)
	}
}

func TestCallOutsideDeclaration(t *testing.T) {
	t.Parallel()
	records, warnings := extractJS(t, "Intl.message('hi', {name: 'x'});\n", Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "inside a")
}

func TestMultiVariableDeclaration(t *testing.T) {
	t.Parallel()
	source := "let a = 1, b = Intl.message('hi', {name: 'b'});\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "inside a")
}

func TestNamedParametersRejected(t *testing.T) {
	t.Parallel()
	source := "function f({name}) {\n  return Intl.message('hi', {name: 'f'});\n}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "positional")
}

func TestUnknownArgumentReference(t *testing.T) {
	t.Parallel()
	source := "function f(name) {\n  return Intl.message(`Hi ${other}`, {name: 'f', args: [name]});\n}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, `argument "other" not found`)
}

func TestComplexInterpolationRejected(t *testing.T) {
	t.Parallel()
	source := "function f(user) {\n  return Intl.message(`Hi ${user.name}`, {name: 'f', args: [user]});\n}\n"
	_, warnings := extractJS(t, source, Config{})
	wantWarningContaining(t, warnings, "only simple identifiers")
}

func TestEmbeddedPluralPolicy(t *testing.T) {
	t.Parallel()
	source := "function m(n) {\n" +
		"  return Intl.message(`You have ${Intl.plural(n, {one: 'one', other: 'many'})} now`, {name: 'm', args: [n]});\n" +
		"}\n"

	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("embedding disallowed: got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "top level")

	records, warnings = extractJS(t, source, Config{AllowEmbeddedPluralGender: true})
	wantNoWarnings(t, warnings)
	rec := records["m"]
	if rec == nil {
		t.Fatal("no record named m with embedding allowed")
	}
	if len(rec.Pieces) != 3 {
		t.Fatalf("pieces = %#v, want literal/sub/literal", rec.Pieces)
	}
	sub, ok := rec.Pieces[1].(*message.Message)
	if !ok {
		t.Fatalf("piece 1 = %#v, want sub-message", rec.Pieces[1])
	}
	if sub.Kind != message.Plural || sub.Parent != rec {
		t.Errorf("sub kind = %q parent set = %v", sub.Kind, sub.Parent == rec)
	}
}

func TestNestedPluralAsSoleContent(t *testing.T) {
	t.Parallel()
	source := "function m(n) {\n" +
		"  return Intl.message(`${Intl.plural(n, {one: 'one', other: `${n} items`})}`, {name: 'm', args: [n]});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	rec := records["m"]
	if rec == nil {
		t.Fatal("no record named m")
	}
	sub, ok := rec.Pieces[0].(*message.Message)
	if !ok {
		t.Fatalf("piece 0 = %#v, want sub-message", rec.Pieces[0])
	}
	wantOther := []message.Piece{message.ArgIndex(0), message.Literal(" items")}
	if !reflect.DeepEqual(sub.Cases["other"], wantOther) {
		t.Errorf("nested other case = %#v, want %#v", sub.Cases["other"], wantOther)
	}
}

func TestGenderMessage(t *testing.T) {
	t.Parallel()
	source := "function pronoun(g) {\n" +
		"  return Intl.gender(g, {female: 'she', male: 'he', other: 'they', name: 'pronoun', args: [g]});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	rec := records["pronoun"]
	if rec == nil {
		t.Fatal("no record named pronoun")
	}
	if rec.Kind != message.Gender || rec.MainArg != "g" {
		t.Errorf("kind = %q main = %q", rec.Kind, rec.MainArg)
	}
	if !reflect.DeepEqual(rec.CaseOrder, []string{"female", "male", "other"}) {
		t.Errorf("case order = %v", rec.CaseOrder)
	}
}

func TestSelectMessage(t *testing.T) {
	t.Parallel()
	source := "function mood(choice) {\n" +
		"  return Intl.select(choice, {happy: 'Happy', sad: 'Sad', other: 'Meh'}, {name: 'mood', args: [choice]});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	rec := records["mood"]
	if rec == nil {
		t.Fatal("no record named mood")
	}
	if rec.Kind != message.Select || rec.MainArg != "choice" {
		t.Errorf("kind = %q main = %q", rec.Kind, rec.MainArg)
	}
	if !reflect.DeepEqual(rec.Cases["happy"], []message.Piece{message.Literal("Happy")}) {
		t.Errorf("happy case = %#v", rec.Cases["happy"])
	}
}

func TestInvalidMainArgument(t *testing.T) {
	t.Parallel()
	source := "function f(n) {\n  return Intl.plural(n + 1, {other: 'x', name: 'f', args: [n]});\n}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "main argument")
}

func TestCaseErrorsAccumulate(t *testing.T) {
	t.Parallel()
	source := "function f(n) {\n" +
		"  return Intl.plural(n, {one: `${a}`, few: `${b}`, other: 'x', name: 'f', args: [n]});\n" +
		"}\n"
	_, warnings := extractJS(t, source, Config{})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	reason := warnings[0].Reason
	if !strings.Contains(reason, `case "one"`) || !strings.Contains(reason, `case "few"`) {
		t.Errorf("warning %q should report both failed cases", reason)
	}
}

func TestDuplicateIdenticalMerges(t *testing.T) {
	t.Parallel()
	source := "function greet(name) {\n" +
		"  return Intl.message(`Hello ${name}`, {name: 'greet', args: [name]});\n" +
		"}\n" +
		"function greet2(name) {\n" +
		"  return Intl.message(`Hello ${name}`, {name: 'greet', args: [name], desc: 'a different description'});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestDuplicateDifferingWarnsAndKeepsFirst(t *testing.T) {
	t.Parallel()
	source := "function greet(name) {\n" +
		"  return Intl.message(`Hello ${name}`, {name: 'greet', args: [name]});\n" +
		"}\n" +
		"function greet2(name) {\n" +
		"  return Intl.message(`Goodbye ${name}`, {name: 'greet', args: [name]});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	wantWarningContaining(t, warnings, `duplicate message name "greet"`)
	if warnings[0].Origin != "test.js" {
		t.Errorf("warning origin = %q, want test.js", warnings[0].Origin)
	}
	rec := records["greet"]
	if !reflect.DeepEqual(rec.Pieces[0], message.Piece(message.Literal("Hello "))) {
		t.Errorf("first occurrence should win, pieces = %#v", rec.Pieces)
	}
}

func TestSkipFlag(t *testing.T) {
	t.Parallel()
	source := "function greet(name) {\n" +
		"  return Intl.message(`Hello ${name}`, {name: 'greet', args: [name], skip: true});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	if len(records) != 0 {
		t.Errorf("skip-flagged record should be omitted, got %v", records)
	}
}

func TestSuppressWarningsStillRecords(t *testing.T) {
	t.Parallel()
	source := "Intl.message('hi', {name: 'x'});\n"
	l := lang.Languages["javascript"]
	tree, _, err := parse.Parse(l.NewParser(), []byte(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	calls := 0
	callback := func(string) { calls++ }

	_, warnings := Extract(tree, []byte(source), "test.js", Config{SuppressWarnings: true}, callback)
	if len(warnings) != 1 {
		t.Errorf("got %d warnings recorded, want 1", len(warnings))
	}
	if calls != 0 {
		t.Errorf("callback called %d times with warnings suppressed", calls)
	}

	_, warnings = Extract(tree, []byte(source), "test.js", Config{}, callback)
	if len(warnings) != 1 {
		t.Errorf("got %d warnings recorded, want 1", len(warnings))
	}
	if calls != 1 {
		t.Errorf("callback called %d times, want 1", calls)
	}
}

func TestGenerateNames(t *testing.T) {
	t.Parallel()
	source := "function welcome(name) {\n  return Intl.message(`Hi ${name}`);\n}\n"
	records, warnings := extractJS(t, source, Config{GenerateNames: true})
	wantNoWarnings(t, warnings)
	rec := records["welcome"]
	if rec == nil {
		t.Fatalf("no record named welcome; got %v", records)
	}
	if !reflect.DeepEqual(rec.Arguments, []string{"name"}) {
		t.Errorf("arguments = %v, want [name]", rec.Arguments)
	}
}

func TestGenerateNamesMeaningSuffix(t *testing.T) {
	t.Parallel()
	source := "function welcome(name) {\n  return Intl.message(`Hi ${name}`, {meaning: 'casual'});\n}\n"
	records, warnings := extractJS(t, source, Config{GenerateNames: true})
	wantNoWarnings(t, warnings)
	if records["welcome_casual"] == nil {
		t.Fatalf("no record named welcome_casual; got %v", records)
	}
}

func TestNameRequiredWithoutGeneration(t *testing.T) {
	t.Parallel()
	source := "function welcome() {\n  return Intl.message('Hi');\n}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "'name'")
}

func TestArgsMustMatchParameters(t *testing.T) {
	t.Parallel()
	source := "function f(a) {\n  return Intl.message(`Hi ${a}`, {name: 'f', args: [b]});\n}\n"
	_, warnings := extractJS(t, source, Config{})
	wantWarningContaining(t, warnings, "must match")
}

func TestArgsRequiredForParameterizedFunction(t *testing.T) {
	t.Parallel()
	source := "function f(a) {\n  return Intl.message(`Hi ${a}`, {name: 'f'});\n}\n"
	_, warnings := extractJS(t, source, Config{})
	wantWarningContaining(t, warnings, "'args'")
}

func TestQualifiedIntlTarget(t *testing.T) {
	t.Parallel()
	source := "function f() {\n  return i18n.Intl.message('Hi', {name: 'f'});\n}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	if records["f"] == nil {
		t.Fatalf("qualified Intl call not extracted; got %v", records)
	}
}

func TestNonIntlTargetIgnored(t *testing.T) {
	t.Parallel()
	source := "function f() {\n  return Other.message('Hi', {name: 'f'});\n}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestMatchingCallInsideNonMatchingCall(t *testing.T) {
	t.Parallel()
	source := "function f() {\n  return wrap(Intl.message('Hi', {name: 'f'}));\n}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	if records["f"] == nil {
		t.Fatalf("nested-in-argument call not extracted; got %v", records)
	}
}

func TestMatchedCallStopsDescent(t *testing.T) {
	t.Parallel()
	// The outer call fails validation; its inner plural must not be
	// double-counted as a top-level message.
	source := "function f(n) {\n" +
		"  return Intl.message(`${Intl.plural(n, {other: 'x'})}`, {args: [n]});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1 (outer only)", len(warnings))
	}
}

func TestNestedFunctionLiteralClearsContext(t *testing.T) {
	t.Parallel()
	source := "function f(name) {\n" +
		"  items.forEach(function () {\n" +
		"    Intl.message(`Hi ${name}`, {name: 'f', args: [name]});\n" +
		"  });\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, "inside a")
}

func TestStringConcatenation(t *testing.T) {
	t.Parallel()
	source := "function f() {\n  return Intl.message('Hello ' + 'world', {name: 'f'});\n}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	rec := records["f"]
	if rec == nil {
		t.Fatal("no record named f")
	}
	want := []message.Piece{message.Literal("Hello "), message.Literal("world")}
	if !reflect.DeepEqual(rec.Pieces, want) {
		t.Errorf("pieces = %#v, want %#v", rec.Pieces, want)
	}
}

func TestAttributesCaptured(t *testing.T) {
	t.Parallel()
	source := "function f(name) {\n" +
		"  return Intl.message(`Hi ${name}`, {name: 'f', args: [name], desc: 'a greeting', meaning: 'casual', examples: {name: 'Alice'}, locale: 'en_US'});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	wantNoWarnings(t, warnings)
	rec := records["f"]
	if rec == nil {
		t.Fatal("no record named f")
	}
	if rec.Description != "a greeting" || rec.Meaning != "casual" {
		t.Errorf("desc = %q meaning = %q", rec.Description, rec.Meaning)
	}
	if rec.Examples["name"] != "Alice" {
		t.Errorf("examples = %v", rec.Examples)
	}
	if rec.Attributes["locale"] != "'en_US'" {
		t.Errorf("extra attributes = %v", rec.Attributes)
	}
}

func TestUnknownAttributeOnPluralRejected(t *testing.T) {
	t.Parallel()
	source := "function f(n) {\n" +
		"  return Intl.plural(n, {other: 'x', name: 'f', args: [n], bogus: 'y'});\n" +
		"}\n"
	records, warnings := extractJS(t, source, Config{})
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	wantWarningContaining(t, warnings, `"bogus"`)
}

func TestIncludeSourceText(t *testing.T) {
	t.Parallel()
	source := "function f() {\n  return Intl.message('Hi', {name: 'f'});\n}\n"
	records, _ := extractJS(t, source, Config{IncludeSourceText: true})
	rec := records["f"]
	if rec == nil {
		t.Fatal("no record named f")
	}
	if !strings.Contains(rec.SourceText, "Intl.message('Hi'") {
		t.Errorf("source text = %q", rec.SourceText)
	}
}

func TestIdempotentDecomposition(t *testing.T) {
	t.Parallel()
	source := "function greet(name) {\n" +
		"  return Intl.message(`Hello ${name}`, {name: 'greet', args: [name]});\n" +
		"}\n"
	first, _ := extractJS(t, source, Config{})
	second, _ := extractJS(t, source, Config{})
	if !reflect.DeepEqual(first["greet"].Pieces, second["greet"].Pieces) {
		t.Error("decomposing the same expression twice should yield identical pieces")
	}
}
