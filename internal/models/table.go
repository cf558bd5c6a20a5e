package models

// TableKey identifies one physical ordering session as the
// (franchise, branch, table) triple used in every backend path.
type TableKey struct {
	Franchise string `json:"franchise"`
	Branch    string `json:"branch"`
	Table     string `json:"table"`
}

func (k TableKey) Valid() bool {
	return k.Franchise != "" && k.Branch != "" && k.Table != ""
}

// Path is the table page path, used as the return target after sign-in.
func (k TableKey) Path() string {
	return "/" + k.Franchise + "/" + k.Branch + "/" + k.Table
}
