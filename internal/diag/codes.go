package diag

// Error codes are partitioned by phase so a user can tell at a glance
// where a reported problem originated, the way the code ranges in the
// original source's error catalog do: E0xx for the scanner, E1xx for
// the parser, E5xx for the evaluator.
const (
	CodeUnexpectedCharacter = "E001"
	CodeUnterminatedString  = "E002"

	CodeExpectExpression = "E101"
	CodeExpectToken      = "E102"
	CodeInvalidTarget    = "E103"
	CodeTooManyArgs      = "E104"
	CodeTooManyParams    = "E105"
	CodeBadInheritance   = "E106"
	CodeBadReturn        = "E107"
	CodeBadThisSuper     = "E108"

	CodeUndefinedVariable = "E501"
	CodeTypeMismatch      = "E502"
	CodeNotCallable       = "E503"
	CodeWrongArity        = "E504"
	CodeUndefinedProperty = "E505"
	CodeOnlyInstancesHave  = "E506"
	CodeSuperclassNotClass = "E507"
)
