// Package pipeline provides a framework for executing analysis steps in
// sequence.
//
// The pipeline pattern is used to inspect container corpora through multiple
// stages: range stability classification, dimension signature scanning, and
// thermal scale recovery. Each stage is implemented as a Step that receives
// the current inspection state and can modify its report.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for multi-step runs
// 4. It enables potential parallelization of independent steps in the future
//
// The package also provides batch extraction of many containers with
// concurrency control using errgroup.
package pipeline
