package universe

//the test sample with 3 stable patterns
var testSample = [][]int{
	{1, 1}, {1, 2},
	{2, 1}, {2, 2},
	{3, 3},
	{4, 2},
	{4, 3},
	{5, 3},
}

//Builtin returns the templates every universe starts with
func Builtin() []Template {
	return []Template{
		{"testSample", "the test sample with 3 stable patterns", testSample},
		{"block", "2x2 still life", [][]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}}},
		{"blinker", "period 2 oscillator", [][]int{{3, 5}, {4, 5}, {5, 5}}},
		{"glider", "moves one cell diagonally every 4 generations", [][]int{{2, 1}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}},
	}
}
