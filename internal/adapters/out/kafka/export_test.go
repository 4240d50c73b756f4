package kafka

// NewPublisherWithWriter exposes writer injection to the external test package.
var NewPublisherWithWriter = newPublisherWithWriter
