package claude

// Models is the choice list of model identifiers exposed to host UIs.
// Ordered oldest to newest; hosts render it as a dropdown.
var Models = []string{
	"claude-3-haiku-20240307",
	"claude-3-sonnet-20240229",
	"claude-3-opus-20240229",
	"claude-3-5-haiku-20241022",
	"claude-3-5-sonnet-20241022",
	"claude-3-7-sonnet-20250219",
}

// DefaultVisionModel is the default for image classification nodes.
const DefaultVisionModel = "claude-3-7-sonnet-20250219"
