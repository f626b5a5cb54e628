// Package workflow executes named steps sequentially against shared state.
//
// A Workflow[S] is an insertion-ordered collection of named StepFunc[S]
// bindings. Run snapshots the step list, threads one state value through the
// steps in order, and retries failures per an execution policy: per-step
// retries first, whole-workflow restarts second, with a hard bound on total
// step invocations. Runs are single-flight and observable through the
// returned handle's event bus ("step_start", "step_success", "step_error",
// "retry").
//
// AgentWorkflow specializes the engine for agent pipelines: steps run agents
// against the conversation in AgentWorkflowState, nested agent-run events are
// piped into the workflow's run bus, and each produced message is folded back
// into the shared state.
package workflow
