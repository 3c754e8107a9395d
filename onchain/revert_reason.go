package onchain

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common/hexutil"
	"github.com/crytic/medusa-geth/rpc"
	"github.com/pkg/errors"
)

// An enum is defined below providing all `Panic(uint)` error codes returned in return data when the VM encounters
// an error in some cases.
// Reference: https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
const (
	PanicCodeCompilerInserted              = 0x00
	PanicCodeAssertFailed                  = 0x01
	PanicCodeArithmeticUnderOverflow       = 0x11
	PanicCodeDivideByZero                  = 0x12
	PanicCodeEnumTypeConversionOutOfBounds = 0x21
	PanicCodeIncorrectStorageAccess        = 0x22
	PanicCodePopEmptyArray                 = 0x31
	PanicCodeOutOfBoundsArrayAccess        = 0x32
	PanicCodeAllocateTooMuchMemory         = 0x41
	PanicCodeCallUninitializedVariable     = 0x51
)

var (
	// errorStringMethod describes the Error(string) revert payload emitted by require and revert with a message.
	errorStringMethod = newRevertPayloadMethod("Error", "string")

	// panicCodeMethod describes the Panic(uint256) revert payload emitted by failed assertions and checked arithmetic.
	panicCodeMethod = newRevertPayloadMethod("Panic", "uint256")
)

// newRevertPayloadMethod creates an ABI method whose inputs describe a built-in revert payload.
func newRevertPayloadMethod(name string, argumentType string) abi.Method {
	typ, _ := abi.NewType(argumentType, "", nil)
	return abi.NewMethod(name, name, abi.Function, "", false, false, []abi.Argument{
		{Name: "", Type: typ, Indexed: false},
	}, abi.Arguments{})
}

// RevertData extracts the return data of a reverted call from an RPC error, if the node provided any.
func RevertData(err error) []byte {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil
	}
	hexData, ok := dataErr.ErrorData().(string)
	if !ok {
		return nil
	}
	data, decodeErr := hexutil.Decode(hexData)
	if decodeErr != nil {
		return nil
	}
	return data
}

// DecodeRevertReason returns a human-readable reason for reverted call return data: the message of an
// Error(string), the reason of a Panic(uint256), or a custom error declared in the contract ABI. If the data does not
// match any of these, an empty string is returned.
func DecodeRevertReason(contractAbi *abi.ABI, returnData []byte) string {
	if len(returnData) < 4 {
		return ""
	}

	// Verify the return data starts with the correct selector, then unpack the arguments.
	if bytes.Equal(returnData[:4], errorStringMethod.ID) {
		values, err := errorStringMethod.Inputs.Unpack(returnData[4:])
		if err == nil && len(values) > 0 {
			if message, ok := values[0].(string); ok {
				return message
			}
		}
	}
	if bytes.Equal(returnData[:4], panicCodeMethod.ID) && len(returnData) == 4+32 {
		values, err := panicCodeMethod.Inputs.Unpack(returnData[4:])
		if err == nil && len(values) > 0 {
			if panicCode, ok := values[0].(*big.Int); ok && panicCode.IsUint64() {
				return GetPanicReason(panicCode.Uint64())
			}
		}
	}

	// Loop for each error definition in the ABI.
	if contractAbi == nil {
		return ""
	}
	for _, abiError := range contractAbi.Errors {
		if !bytes.Equal(abiError.ID.Bytes()[:4], returnData[:4]) {
			continue
		}
		values, err := abiError.Inputs.Unpack(returnData[4:])
		if err != nil {
			continue
		}
		formattedValues := make([]string, len(values))
		for i, value := range values {
			formattedValues[i] = fmt.Sprintf("%v", value)
		}
		return fmt.Sprintf("%s(%s)", abiError.Name, strings.Join(formattedValues, ", "))
	}
	return ""
}

// GetPanicReason will take in a panic code as an uint64 and will return the string reason behind that panic code. For
// example, if panic code is PanicCodeAssertFailed, then "assertion failure" is returned.
func GetPanicReason(panicCode uint64) string {
	// Switch on panic code
	switch panicCode {
	case PanicCodeCompilerInserted:
		return "panic: compiler inserted panic"
	case PanicCodeAssertFailed:
		return "panic: assertion failed"
	case PanicCodeArithmeticUnderOverflow:
		return "panic: arithmetic underflow"
	case PanicCodeDivideByZero:
		return "panic: division by zero"
	case PanicCodeEnumTypeConversionOutOfBounds:
		return "panic: enum access out of bounds"
	case PanicCodeIncorrectStorageAccess:
		return "panic: incorrect storage access"
	case PanicCodePopEmptyArray:
		return "panic: pop on empty array"
	case PanicCodeOutOfBoundsArrayAccess:
		return "panic: out of bounds array access"
	case PanicCodeAllocateTooMuchMemory:
		return "panic: overallocation of memory"
	case PanicCodeCallUninitializedVariable:
		return "panic: call on uninitialized variable"
	default:
		return fmt.Sprintf("unknown panic code(%v)", panicCode)
	}
}
