package bot

import "github.com/rs/zerolog/log"

// LogNarrator forwards combat narration to zerolog at debug level, tagged
// with the battle name so parallel arena games stay readable.
type LogNarrator struct {
	Battle string
}

func (n LogNarrator) Say(line string) {
	log.Debug().Str("battle", n.Battle).Msg(line)
}
