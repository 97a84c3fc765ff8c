package contracts

type ProcessResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Width      int
	Height     int
	DPI        float64
}

func (r ProcessResult) OK() bool {
	return r.Err == nil
}
