package objects

import "strings"

// PropertyFlags is the raw flag bitmask of a reflected property.
type PropertyFlags uint64

const (
	PropEdit          PropertyFlags = 1 << 0
	PropConstParam    PropertyFlags = 1 << 1
	PropExportObject  PropertyFlags = 1 << 3
	PropOptionalParam PropertyFlags = 1 << 4
	PropNet           PropertyFlags = 1 << 5
	PropEditFixedSize PropertyFlags = 1 << 6
	PropParam         PropertyFlags = 1 << 7
	PropOutParam      PropertyFlags = 1 << 8
	PropSkipParam     PropertyFlags = 1 << 9
	PropReturnParam   PropertyFlags = 1 << 10
	PropCoerceParam   PropertyFlags = 1 << 11
	PropNative        PropertyFlags = 1 << 12
	PropTransient     PropertyFlags = 1 << 13
	PropConfig        PropertyFlags = 1 << 14
	PropRefParam      PropertyFlags = 1 << 15
	PropEditConst     PropertyFlags = 1 << 17
)

type flagName struct {
	bit  uint64
	name string
}

var propertyFlagNames = []flagName{
	{uint64(PropEdit), "Edit"},
	{uint64(PropConstParam), "ConstParm"},
	{uint64(PropExportObject), "ExportObject"},
	{uint64(PropOptionalParam), "OptionalParm"},
	{uint64(PropNet), "Net"},
	{uint64(PropEditFixedSize), "EditFixedSize"},
	{uint64(PropParam), "Parm"},
	{uint64(PropOutParam), "OutParm"},
	{uint64(PropSkipParam), "SkipParm"},
	{uint64(PropReturnParam), "ReturnParm"},
	{uint64(PropCoerceParam), "CoerceParm"},
	{uint64(PropNative), "Native"},
	{uint64(PropTransient), "Transient"},
	{uint64(PropConfig), "Config"},
	{uint64(PropRefParam), "ReferenceParm"},
	{uint64(PropEditConst), "EditConst"},
}

func (f PropertyFlags) String() string {
	return stringifyFlags(uint64(f), propertyFlagNames)
}

// FunctionFlags is the raw flag bitmask of a reflected function.
type FunctionFlags uint64

const (
	FuncFinal        FunctionFlags = 1 << 0
	FuncExec         FunctionFlags = 1 << 9
	FuncNative       FunctionFlags = 1 << 10
	FuncEvent        FunctionFlags = 1 << 11
	FuncStatic       FunctionFlags = 1 << 13
	FuncPublic       FunctionFlags = 1 << 17
	FuncPrivate      FunctionFlags = 1 << 18
	FuncProtected    FunctionFlags = 1 << 19
	FuncDelegate     FunctionFlags = 1 << 20
	FuncHasOutParams FunctionFlags = 1 << 22
	FuncHasDefaults  FunctionFlags = 1 << 23
	FuncConst        FunctionFlags = 1 << 30
)

var functionFlagNames = []flagName{
	{uint64(FuncFinal), "Final"},
	{uint64(FuncExec), "Exec"},
	{uint64(FuncNative), "Native"},
	{uint64(FuncEvent), "Event"},
	{uint64(FuncStatic), "Static"},
	{uint64(FuncPublic), "Public"},
	{uint64(FuncPrivate), "Private"},
	{uint64(FuncProtected), "Protected"},
	{uint64(FuncDelegate), "Delegate"},
	{uint64(FuncHasOutParams), "HasOutParms"},
	{uint64(FuncHasDefaults), "HasDefaults"},
	{uint64(FuncConst), "Const"},
}

func (f FunctionFlags) String() string {
	return stringifyFlags(uint64(f), functionFlagNames)
}

func stringifyFlags(raw uint64, table []flagName) string {
	var parts []string
	for _, e := range table {
		if raw&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}
