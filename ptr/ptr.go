package ptr

func String(s string) *string {
	return &s
}
