package workunit

import "time"

// nowFunc returns the current time; tests swap it for determinism.
var nowFunc = time.Now
