// internal/word/lists.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load the guessable lexicon and the daily-target question pool from
//     environment-provided files or fall back to embedded defaults.
//   - Maintain a set for quick lexicon lookups.
//   - Supply Questions() for target selection and InLexicon() for guesses.
//
// Word Lists:
//   - "lexicon": every word players may guess (superset of questions).
//   - "questions": candidate daily target words.
//
// Initialization behavior (Init):
//   1. If WORDS_LEXICON_FILE and WORDS_QUESTIONS_FILE are both set,
//      load the lexicon from the first and the question pool from the second.
//   2. If only WORDS_LEXICON_FILE is set, use it for both.
//   3. If neither is set, fall back to the embedded defaults in assets/.
//
// Constraints:
//   • Every entry must normalize to a valid two-character word; entries
//     that do not are skipped with a warning.
//   • The lexicon always includes the question pool.
//   • Initialization runs once (sync.Once).

package word

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ciyi-game/go-server/assets"
)

var (
	initOnce   sync.Once
	questions  []Word              // candidate daily targets
	lexiconSet map[Word]struct{}   // lexicon ∪ questions
	initialErr error
)

// Init loads word lists exactly once.
// Returns an error if the question pool ends up empty.
func Init() error {
	initOnce.Do(func() {
		var lexList, qList []string

		lexiconPath := os.Getenv("WORDS_LEXICON_FILE")
		questionsPath := os.Getenv("WORDS_QUESTIONS_FILE")

		switch {
		case lexiconPath != "" && questionsPath != "":
			var err error
			lexList, err = readWordFile(lexiconPath)
			if err != nil {
				initialErr = err
				return
			}
			qList, err = readWordFile(questionsPath)
			if err != nil {
				initialErr = err
				return
			}
		case lexiconPath != "":
			var err error
			lexList, err = readWordFile(lexiconPath)
			if err != nil {
				initialErr = err
				return
			}
			qList = lexList
		default:
			var err error
			lexList, err = assets.LexiconList()
			if err != nil {
				initialErr = err
				return
			}
			qList, err = assets.QuestionList()
			if err != nil {
				initialErr = err
				return
			}
		}

		lexiconSet = make(map[Word]struct{}, len(lexList)+len(qList))
		for _, s := range append(lexList, qList...) {
			w, err := Normalize(s)
			if err != nil {
				log.Warn().Str("entry", s).Msg("skipping malformed lexicon entry")
				continue
			}
			lexiconSet[w] = struct{}{}
		}

		for _, s := range qList {
			w, err := Normalize(s)
			if err != nil {
				continue
			}
			questions = append(questions, w)
		}
		if len(questions) == 0 {
			initialErr = errors.New("question word list is empty")
		}
	})
	return initialErr
}

// InLexicon reports whether a canonical word may be guessed at all.
func InLexicon(w Word) bool {
	_, ok := lexiconSet[w]
	return ok
}

// Questions returns the candidate daily target words.
func Questions() []Word { return questions }

// Stats reports list sizes, handy for debug endpoints.
func Stats() (lexicon, questionPool int) {
	return len(lexiconSet), len(questions)
}

// readWordFile loads one word per line, skipping blanks and '#' comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
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
