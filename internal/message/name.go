package message

// ComputeName returns the effective message name. An explicit name always
// wins; otherwise the fallback (the enclosing declaration name) is used,
// suffixed with the meaning when one is present so that homonyms with
// different meanings stay distinct in the catalog.
func ComputeName(explicit, fallback, meaning string) string {
	if explicit != "" {
		return explicit
	}
	if meaning != "" {
		return fallback + "_" + meaning
	}
	return fallback
}
