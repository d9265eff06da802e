// Package gofuture implements a listenable, settable asynchronous
// result type: a Future that starts Incomplete and moves exactly once
// to a terminal state (Success, Failure, Cancelled or Interrupted),
// plus the combinators (Map, FlatMap, ErrorHandling family, ZipWith,
// Timeout, CascadeTo, WhenAllComplete/WhenAllSucceed) used to compose
// them.
//
// A Future carries no opinion about where its producing work runs.
// Task wraps a callable and an Executor; NewSettable leaves completion
// entirely to the caller. Executor, Scheduler and Logger are the three
// capabilities a Future consumes without implementing; DefaultExecutor,
// DefaultScheduler and DefaultLogger return the process-wide defaults
// and SetDefaultExecutor, SetDefaultScheduler and SetDefaultLogger
// replace them. NewSettable, Succeeded, Failed, the NewTask family and
// the single-output combinators accept WithExecutor/WithLogger to
// override them per-Future; WhenAllComplete and WhenAllSucceed always
// use the process-wide defaults.
package gofuture
