package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration errors (E120-E129)
	"E120": {Category: CategoryConfig, Message: "Invalid service registry document"},
	"E121": {Category: CategoryConfig, Message: "Default security profile not found"},
	"E122": {Category: CategoryConfig, Message: "Default caching profile not found"},
	"E123": {Category: CategoryConfig, Message: "Missing required configuration"},
	"E124": {Category: CategoryConfig, Message: "Invalid service definition"},
	"E125": {Category: CategorySource, Message: "Configuration source unavailable"},

	// Routing errors (E130-E139)
	"E130": {Category: CategoryRouting, Message: "Duplicate service path"},
	"E131": {Category: CategoryRouting, Message: "Invalid route path"},
	"E132": {Category: CategoryRouting, Message: "Manifest URL differs from route path"},

	// Dispatch errors (E140-E149)
	"E140": {Category: CategoryRouting, Message: "Service handler not found"},

	// CLI errors (E150-E159)
	"E150": {Category: CategoryCLI, Message: "Invalid command usage"},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
