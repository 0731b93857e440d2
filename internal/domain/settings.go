package domain

// Setting is a key/value pair persisted alongside the data, e.g. the stored
// backend credential.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
