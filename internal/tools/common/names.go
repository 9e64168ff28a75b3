package common

// PrefixedToolName joins an optional tool-name prefix with the base tool
// name. An empty prefix leaves the name untouched.
func PrefixedToolName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
