package textutil

import "fmt"

// Plural renders "1 file" or "3 files".
func Plural(n int, noun string) string {
	return fmt.Sprintf("%d %s", n, Ternary(n == 1, noun, noun+"s"))
}
