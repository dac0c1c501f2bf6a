package sysvars

import (
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/text"
)

type sysvar = struct {
	Dflt      object.Object
	Validator func(object.Object) string
}

var Sysvars = map[string]sysvar{
	"$prompt": sysvar{
		Dflt: &object.String{Value: text.PROMPT},
		Validator: func(obj object.Object) string {
			switch obj.(type) {
			case *object.String:
				return ""
			default:
				return "system variable " + text.Emph("$prompt") + " is of type " + text.Emph("string")
			}
		},
	},
	"$color": sysvar{
		Dflt: object.TRUE,
		Validator: func(obj object.Object) string {
			switch obj.(type) {
			case *object.Boolean:
				return ""
			default:
				return "system variable " + text.Emph("$color") + " is of type " + text.Emph("bool")
			}
		},
	},
	"$journal": sysvar{
		Dflt: object.FALSE,
		Validator: func(obj object.Object) string {
			switch obj.(type) {
			case *object.Boolean:
				return ""
			default:
				return "system variable " + text.Emph("$journal") + " is of type " + text.Emph("bool")
			}
		},
	},
}
