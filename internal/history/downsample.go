package history

// Downsample reduces entries to at most maxPoints by taking every step-th
// entry. The final input entry is always part of the output, appended even
// when that breaks the even stride, so charts never lose the newest point.
// Output length is at most maxPoints+1. maxPoints <= 0 disables the cap.
func Downsample(entries []Entry, maxPoints int) []Entry {
	if maxPoints <= 0 || len(entries) <= maxPoints {
		return entries
	}
	step := (len(entries) + maxPoints - 1) / maxPoints
	out := make([]Entry, 0, maxPoints+1)
	last := 0
	for i := 0; i < len(entries); i += step {
		out = append(out, entries[i])
		last = i
	}
	if last != len(entries)-1 {
		out = append(out, entries[len(entries)-1])
	}
	return out
}
