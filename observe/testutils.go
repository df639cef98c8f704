package observe

func GenerateIntSequence(start, sequenceSize int) []int {
	sequence := make([]int, 0, sequenceSize)
	for i := start; i < sequenceSize+start; i++ {
		sequence = append(sequence, i)
	}
	return sequence
}
