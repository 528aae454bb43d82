// Package kernel implements the scheduling subsystem of schedsim: a fixed
// process table, the process lifecycle (allocate, fork, exit, wait, sleep,
// wakeup, kill, yield), and the three-queue MLFQ scheduler (lottery, HRRN,
// SRPF) that dispatches from it.
package kernel
