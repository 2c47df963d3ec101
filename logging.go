package pokejournal

import (
	"github.com/icco/gutil/logging"
)

// Service is the name of this service.
const Service = "pokejournal"

var (
	log = logging.Must(logging.NewLogger(Service))
)
