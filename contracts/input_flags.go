package contracts

type InputFlags struct {
	InputFiles   []string
	OutputFiles  []string
	Engine       string
	ContactSheet string
	Width        int
	Height       int
	GapWidth     int
	MaxPixels    int
	KeepDPI      bool
	ShowHelp     bool
}
