package rustty

import "strings"

// IsStringVarName reports whether an identifier's spelling suggests a
// string type, used by the return-type synthesiser when a variable's type
// is otherwise Unknown (§4.5 "Heuristics for Unknown").
func IsStringVarName(name string) bool {
	singular := !strings.HasSuffix(name, "s")
	switch name {
	case "text", "s", "string", "line", "content", "timestamp", "message",
		"level", "prefix", "suffix", "pattern", "char", "delimiter",
		"separator", "key", "k", "name", "id", "word":
		return true
	}
	if strings.HasSuffix(name, "_key") || strings.HasSuffix(name, "_name") {
		return true
	}
	if !singular {
		return false
	}
	return strings.HasPrefix(name, "text") ||
		strings.HasPrefix(name, "str") ||
		strings.HasSuffix(name, "_str") ||
		strings.HasSuffix(name, "_string")
}

// IsNumericIndexName reports whether a name suggests an integer loop/array
// index.
func IsNumericIndexName(name string) bool {
	switch name {
	case "i", "j", "k", "idx", "index":
		return true
	}
	return strings.HasPrefix(name, "idx_") ||
		strings.HasSuffix(name, "_idx") ||
		strings.HasSuffix(name, "_index")
}

// IsListVarName reports whether a name suggests a list/collection.
func IsListVarName(name string) bool {
	if len(name) > 1 && strings.HasSuffix(name, "s") {
		return true
	}
	switch name {
	case "items", "elements", "data", "results", "values", "entries":
		return true
	}
	return strings.HasSuffix(name, "_list") ||
		strings.HasSuffix(name, "_vec") ||
		strings.HasSuffix(name, "_array")
}

// IsDictVarName reports whether a name suggests a dict/map.
func IsDictVarName(name string) bool {
	switch name {
	case "dict", "map", "config", "options", "settings", "params", "kwargs":
		return true
	}
	return strings.HasSuffix(name, "_dict") || strings.HasSuffix(name, "_map")
}

// IsBoolVarName reports whether a name suggests a boolean.
func IsBoolVarName(name string) bool {
	for _, prefix := range []string{"is_", "has_", "can_", "should_", "will_", "was_", "did_"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	switch name {
	case "found", "done", "enabled", "disabled", "valid", "success", "ok",
		"error", "verbose", "debug", "quiet":
		return true
	}
	return false
}

// IsPathVarName reports whether a name suggests a filesystem path.
func IsPathVarName(name string) bool {
	switch name {
	case "path", "filepath", "filename", "dir", "directory", "folder":
		return true
	}
	return strings.HasSuffix(name, "_path") || strings.HasSuffix(name, "_file") ||
		strings.HasSuffix(name, "_dir") || strings.HasPrefix(name, "path_") ||
		strings.HasPrefix(name, "file_")
}

// IsFloatVarName reports whether a name suggests a float — common
// ML/scientific parameter names and float-ish suffixes.
func IsFloatVarName(name string) bool {
	lower := strings.ToLower(name)
	substrs := []string{"beta", "alpha", "lr", "eps", "rate", "momentum",
		"gamma", "lambda", "sigma", "theta", "weight", "bias"}
	for _, s := range substrs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	suffixes := []string{"_f", "_float", "_ratio", "_percent", "_prob", "_probability"}
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// IsColorChannelName reports whether a single-letter name is a common
// color-channel variable (colorsys-style conversions), excluding the
// over-generic a/b/x/y.
func IsColorChannelName(name string) bool {
	switch name {
	case "r", "g", "h", "s", "v", "l", "c", "m", "k":
		return true
	}
	return false
}

// IsCountVarName reports whether a name suggests an integer count/size.
func IsCountVarName(name string) bool {
	lower := strings.ToLower(name)
	substrs := []string{"count", "num", "size", "length", "len", "offset", "position"}
	for _, s := range substrs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return strings.HasSuffix(lower, "_n") || strings.HasSuffix(lower, "_i") || strings.HasSuffix(lower, "_int")
}
