package commands

import (
	"math"
	"strconv"
	"strings"

	"github.com/kiurchv/go-d1/query/sqlgen"
	"github.com/kiurchv/go-d1/value"
)

// ParseArg infers a typed parameter from command line text: integers bind
// as BigInt, other finite numbers as Double, true/false as Bool, NULL as a
// null Text and everything else, including inf and nan, as Text.
func ParseArg(s string) sqlgen.TypedArg {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sqlgen.Arg(value.TypeBigInt, n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return sqlgen.Arg(value.TypeDouble, f)
	}
	switch strings.ToLower(s) {
	case "true":
		return sqlgen.Arg(value.TypeBool, true)
	case "false":
		return sqlgen.Arg(value.TypeBool, false)
	case "null":
		return sqlgen.Arg(value.TypeText, nil)
	}
	return sqlgen.Arg(value.TypeText, s)
}

func rawStatement(sql string, args []string) sqlgen.Raw {
	typed := make([]any, len(args))
	for i, a := range args {
		typed[i] = ParseArg(a)
	}
	return sqlgen.NewRaw(sql, typed...)
}
