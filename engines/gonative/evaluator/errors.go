package evaluator

import "errors"

var (
	ErrLoadFailed       = errors.New("unable to load compiled plugin artifact")
	ErrEvaluationFailed = errors.New("evaluated code failed")
	ErrBytecodeType     = errors.New("unable to type assert bytecode into gonative artifact")
)
