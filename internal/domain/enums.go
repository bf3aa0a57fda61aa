package domain

// BlockType is the tag of a prompt block. Blocks carry their type as a plain
// string so values outside this set survive a round trip untouched.
type BlockType string

const (
	BlockTask            BlockType = "Task"
	BlockTone            BlockType = "Tone"
	BlockFormat          BlockType = "Format"
	BlockPersona         BlockType = "Persona"
	BlockConstraint      BlockType = "Constraint"
	BlockAudience        BlockType = "Audience"
	BlockStyle           BlockType = "Style"
	BlockExamples        BlockType = "Examples"
	BlockCreativityLevel BlockType = "Creativity Level"
)

// BlockOrder is the canonical layout and export order of the known block types.
var BlockOrder = [...]BlockType{
	BlockTask,
	BlockTone,
	BlockFormat,
	BlockPersona,
	BlockConstraint,
	BlockAudience,
	BlockStyle,
	BlockExamples,
	BlockCreativityLevel,
}

// existingBlockTypes are the five types the builder shipped with.
var existingBlockTypes = map[string]bool{
	"Task": true, "Tone": true, "Format": true, "Persona": true, "Constraint": true,
}

// newBlockTypes were added later; classification only.
var newBlockTypes = map[string]bool{
	"Audience": true, "Style": true, "Examples": true, "Creativity Level": true,
}

// FailureCategory groups persistence failures for user-facing recovery hints.
type FailureCategory string

const (
	CategoryAuth       FailureCategory = "auth"
	CategoryNetwork    FailureCategory = "network"
	CategoryPermission FailureCategory = "permission"
	CategoryData       FailureCategory = "data"
	CategoryUnknown    FailureCategory = "unknown"
)

// RecoveryAction is the suggested next step for a failure category.
type RecoveryAction string

const (
	ActionReauthenticate RecoveryAction = "re-authenticate"
	ActionRetry          RecoveryAction = "retry"
	ActionRefresh        RecoveryAction = "refresh"
	ActionRetryLater     RecoveryAction = "retry-later"
)

// DefaultPromptColor is the indigo used when a saved prompt has no custom color.
const DefaultPromptColor = "#6366f1"
