package blueprint

// Nameable is anything that can stand for a blueprint name: a raw Name or a
// *Blueprint. All name derivations operate on the canonical name string.
type Nameable interface {
	BlueprintName() string
}

// Name is a raw blueprint name.
type Name string

// BlueprintName returns the name itself.
func (n Name) BlueprintName() string {
	return string(n)
}

// Reserved suffixes of the derived step identifiers. A blueprint name with a
// non-empty suffix appended can never collide with the bare name, so the
// initial computation step never shadows the final target.
const (
	initialSuffix  = "_initial"
	refSuffix      = "_blueprint"
	metaSuffix     = "_meta"
	checksSuffix   = "_checks"
	codebookSuffix = "_codebook"
)

func canonicalName(n Nameable) (string, error) {
	if n == nil {
		return "", ErrUndefinedName
	}
	name := n.BlueprintName()
	if name == "" {
		return "", ErrUndefinedName
	}

	return name, nil
}

// InitialName derives the identifier of the step that evaluates the build
// expression.
func InitialName(n Nameable) (string, error) {
	name, err := canonicalName(n)
	if err != nil {
		return "", err
	}

	return name + initialSuffix, nil
}

// RefName derives the identifier of the step that returns the blueprint
// value itself.
func RefName(n Nameable) (string, error) {
	name, err := canonicalName(n)
	if err != nil {
		return "", err
	}

	return name + refSuffix, nil
}

// MetaName derives the identifier of the step that loads or creates the
// metadata table.
func MetaName(n Nameable) (string, error) {
	name, err := canonicalName(n)
	if err != nil {
		return "", err
	}

	return name + metaSuffix, nil
}

// ChecksName derives the identifier of the step that runs the validation
// checks.
func ChecksName(n Nameable) (string, error) {
	name, err := canonicalName(n)
	if err != nil {
		return "", err
	}

	return name + checksSuffix, nil
}

// FinalName derives the identifier of the final dataset step. The final
// dataset keeps the bare blueprint name so downstream steps reference it
// naturally.
func FinalName(n Nameable) (string, error) {
	return canonicalName(n)
}

// CodebookName derives the identifier used for the blueprint's generated
// codebook document.
func CodebookName(n Nameable) (string, error) {
	name, err := canonicalName(n)
	if err != nil {
		return "", err
	}

	return name + codebookSuffix, nil
}
