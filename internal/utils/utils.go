package utils

// MaskID masks an identifier for logging, keeping the first and last
// three characters (e.g. "64f...a1c").
func MaskID(id string) string {
	if len(id) > 6 {
		return id[:3] + "..." + id[len(id)-3:]
	}
	return "******"
}
