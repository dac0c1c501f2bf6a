package hub

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"src.elv.sh/pkg/persistent/vector"

	"github.com/tim-hardcastle/Minnow/text"
)

type ioPair struct {
	input  string
	output string
}

type Snap struct {
	testFilename   string
	scriptFilepath string
	ioList         vector.Vector
}

const (
	BAD    = "bad"
	GOOD   = "good"
	RECORD = "record"
)

func NewSnap(scriptFilepath, testFilename string) *Snap {
	sn := Snap{scriptFilepath: scriptFilepath, testFilename: testFilename, ioList: vector.Empty}
	return &sn
}

func (sn *Snap) AddInput(s string) {
	sn.ioList = sn.ioList.Conj(ioPair{input: s, output: ""})
}

func (sn *Snap) AddOutput(s string) {
	last := sn.ioList.Len() - 1
	elem, _ := sn.ioList.Index(last)
	pair := elem.(ioPair)
	pair.output = s
	sn.ioList = sn.ioList.Assoc(last, pair)
}

func (sn *Snap) Save(st string) string {
	snapOutput := fmt.Sprintf("snap: %v\nscript: %v\n", st, sn.scriptFilepath)
	for it := sn.ioList.Iterator(); it.HasElem(); it.Next() {
		pair := it.Elem().(ioPair)
		snapOutput = snapOutput + "\n" + "-> " + pair.input + "\n" + pair.output
	}

	directoryName := "tst/" + text.FlattenedFilename(sn.scriptFilepath)
	err := os.MkdirAll(directoryName, 0777)
	if err != nil {
		return text.ERROR + strings.TrimSpace(err.Error())
	}
	testFilepath := directoryName + "/" + sn.testFilename
	f, err := os.Create(testFilepath)
	if err != nil {
		return text.ERROR + strings.TrimSpace(err.Error())
	}
	defer f.Close()

	f.WriteString(snapOutput)

	return "Created test as file " + text.Emph(testFilepath) + "."
}

// A snap file is two header lines and then the recorded exchanges, each
// one a '-> ' input line followed by however many lines the service wrote
// back.
type snapData struct {
	testType       string
	scriptFilepath string
	ioList         []ioPair
}

func readSnapFile(testFilepath string) (*snapData, error) {
	dat, err := os.ReadFile(testFilepath)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(dat), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "snap: ") ||
		!strings.HasPrefix(lines[1], "script: ") {
		return nil, errors.New("file " + text.Emph(testFilepath) + " isn't a snap test")
	}
	data := snapData{testType: strings.TrimPrefix(lines[0], "snap: "),
		scriptFilepath: strings.TrimPrefix(lines[1], "script: ")}
	i := 2
	for i < len(lines) {
		if !strings.HasPrefix(lines[i], "-> ") {
			i++
			continue
		}
		pair := ioPair{input: strings.TrimPrefix(lines[i], "-> ")}
		i++
		outputLines := []string{}
		for i < len(lines) && !strings.HasPrefix(lines[i], "-> ") {
			outputLines = append(outputLines, lines[i])
			i++
		}
		for len(outputLines) > 0 && outputLines[len(outputLines)-1] == "" {
			outputLines = outputLines[:len(outputLines)-1]
		}
		pair.output = strings.Join(outputLines, "\n")
		data.ioList = append(data.ioList, pair)
	}
	return &data, nil
}
