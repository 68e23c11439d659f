package main

// pathList is an insertion-ordered list of repository paths. Runs are sequential, so it needs
// no lock.
type pathList struct {
	list []string
}

func (pl *pathList) add(item string) {
	pl.list = append(pl.list, item)
}

func (pl *pathList) len() int {
	return len(pl.list)
}

// head returns at most the first n items.
func (pl *pathList) head(n int) []string {
	if n < 0 || n > len(pl.list) {
		n = len(pl.list)
	}
	return pl.list[:n]
}
