package messages

// PreviewTruncatedFmt is appended to a diff cut at the line limit.
const PreviewTruncatedFmt = "... (truncated to %d lines; rerun with --diff-lines <n> to see more)"
