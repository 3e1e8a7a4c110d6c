package avgschema

import (
	"strconv"
	"strings"

	"github.com/pgcraft/pgcraft"
	"github.com/pgcraft/pgcraft/schema/aggregate"
)

// IntegerAvgState is the running sum and count of the average.
//
//pgcraft:type
type IntegerAvgState struct {
	Sum int64
	N   int64
}

// IntegerAvg reduces integers to their average.
type IntegerAvg struct{}

func (a *IntegerAvg) Aggregate() *aggregate.Builder {
	return aggregate.Reduce("DEMOAVG").
		Args("int32").
		State("IntegerAvgState").
		Finalize("int32").
		InitialCondition("0,0").
		Parallel(pgcraft.ParallelUnsafe)
}

//pgcraft:function strict
func TagText(tag int32, parts ...string) string {
	return strconv.Itoa(int(tag)) + ":" + strings.Join(parts, ",")
}
