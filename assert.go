package pagecache

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}
