package urlencoded

// halfbyte maps hex digits onto their values. Everything else maps onto 0xFF, so two
// looked-up values OR-ed together exceed 0x0F if any of them isn't a digit.
var halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		table[c] = c - 'a' + 10
		table[c-'a'+'A'] = c - 'a' + 10
	}

	return table
}()
