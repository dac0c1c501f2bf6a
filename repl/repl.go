package repl

import (
	"fmt"
	"strings"

	"github.com/lmorg/readline"

	"github.com/tim-hardcastle/Minnow/hub"
	"github.com/tim-hardcastle/Minnow/text"
)

// Start runs the REPL until the hub says we're done.
func Start(hub *hub.Hub) {
	rline := readline.NewInstance()
	for {
		rline.SetPrompt(hub.Prompt())
		line, err := rline.Readline()
		if err != nil {
			fmt.Println(text.ERROR, err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		quit := hub.Do(line)
		if quit {
			break
		}
	}
}
