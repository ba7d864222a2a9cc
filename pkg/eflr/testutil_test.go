package eflr

func ident(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func obname(origin, copyNum byte, name string) []byte {
	return join([]byte{origin, copyNum}, ident(name))
}
