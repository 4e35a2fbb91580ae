package apperror

// Code is a stable identifier for a class of failure.
type Code string

const (
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Pool engine
const (
	CodeInvalidPrice           Code = "INVALID_PRICE"
	CodeInvalidLiquidity       Code = "INVALID_LIQUIDITY"
	CodeInvalidGas             Code = "INVALID_GAS"
	CodeInvalidFeeParams       Code = "INVALID_FEE_PARAMS"
	CodeSubmittedFeeOutOfRange Code = "SUBMITTED_FEE_OUT_OF_RANGE"
	CodeSubmittedFeeNotFinite  Code = "SUBMITTED_FEE_NOT_FINITE"
	CodeBlockIDRegressed       Code = "BLOCK_ID_REGRESSED"
)

// Market signals and gas
const (
	CodeSignalProviderFailure    Code = "SIGNAL_PROVIDER_FAILURE"
	CodeOrderbookFetchFailed     Code = "ORDERBOOK_FETCH_FAILED"
	CodeInvalidOrderbook         Code = "INVALID_ORDERBOOK"
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeGasSourceFailure         Code = "GAS_SOURCE_FAILURE"
	CodeCircuitOpen              Code = "CIRCUIT_OPEN"
)

// Simulation
const (
	CodeSimulationCancelled Code = "SIMULATION_CANCELLED"
	CodeInvalidSimulation   Code = "INVALID_SIMULATION"
)

var messages = map[Code]string{
	CodeConfigurationError: "configuration error",
	CodeRateLimitExceeded:  "rate limit exceeded",
	CodeInternalError:      "internal error",
	CodeUnknownError:       "unknown error",

	CodeInvalidPrice:           "price must be strictly positive and finite",
	CodeInvalidLiquidity:       "liquidity must be strictly positive and finite",
	CodeInvalidGas:             "gas cost must be non-negative and finite",
	CodeInvalidFeeParams:       "invalid fee model parameters",
	CodeSubmittedFeeOutOfRange: "submitted fee outside the accepted range",
	CodeSubmittedFeeNotFinite:  "submitted fee is not a finite number",
	CodeBlockIDRegressed:       "block id is lower than the current block",

	CodeSignalProviderFailure:    "order book signal provider failed",
	CodeOrderbookFetchFailed:     "failed to fetch order book",
	CodeInvalidOrderbook:         "invalid order book data",
	CodeEthereumConnectionFailed: "failed to connect to ethereum node",
	CodeEthereumRPCError:         "ethereum rpc call failed",
	CodeGasSourceFailure:         "gas cost source failed",
	CodeCircuitOpen:              "circuit breaker is open",

	CodeSimulationCancelled: "simulation cancelled",
	CodeInvalidSimulation:   "invalid simulation parameters",
}

// Message returns the default message for c, or the code itself.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return string(c)
}
