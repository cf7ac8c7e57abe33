package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed lexicon.txt questions.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// LexiconList returns the embedded default guessable vocabulary.
func LexiconList() ([]string, error) {
	return readLines("lexicon.txt")
}

// QuestionList returns the embedded default pool of daily target words.
func QuestionList() ([]string, error) {
	return readLines("questions.txt")
}
