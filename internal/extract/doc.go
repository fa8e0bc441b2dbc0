// Package extract runs one full identifier extraction: name correlation against
// the contact store, direct resolution from session credentials, assembly, and
// snapshot persistence, all under a single wall-clock budget.
//
// The two resolution pipelines fail independently. A store outage only loses
// correlated results, and a missing sessions directory only loses direct
// results. Only a failed snapshot write, or running out of time before it,
// makes the run fatal.
package extract
