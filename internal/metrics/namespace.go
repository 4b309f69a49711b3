package metrics

const Namespace = "pdfsplit"
