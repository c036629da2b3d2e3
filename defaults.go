package interpolate

// Builtins registers the built-in filters. It is a Configurator:
//
//	e := interpolate.New().Use(interpolate.Builtins)
func Builtins(e *Engine) {
	// String filters
	e.Filter("upper", FilterUpper)
	e.Filter("caps", FilterUpper) // alias
	e.Filter("lower", FilterLower)
	e.Filter("capitalize", FilterCapitalize)
	e.Filter("title", FilterTitle)
	e.Filter("trim", FilterTrim)
	e.Filter("append", FilterAppend)
	e.Filter("prepend", FilterPrepend)
	e.Filter("replace", FilterReplace)
	e.Filter("truncate", FilterTruncate)
	e.Filter("default", FilterDefault)
	e.Filter("d", FilterDefault) // alias

	// List filters
	e.Filter("join", FilterJoin)
	e.Filter("length", FilterLength)
	e.Filter("count", FilterLength) // alias
	e.Filter("first", FilterFirst)
	e.Filter("last", FilterLast)
	e.Filter("reverse", FilterReverse)

	// Numeric filters
	e.Filter("round", FilterRound)

	// Encoding filters
	e.Filter("json", FilterJSON)
	e.Filter("urlencode", FilterURLEncode)
}
