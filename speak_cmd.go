package main

// runSpeak dispatches synthesis of the message and waits for the job to
// settle. The terminal outcome is delivered through the notifier, so a
// failed job does not additionally bubble an error here: one notification
// per dispatch.
func runSpeak(message string) error {
	controller, err := newController()
	if err != nil {
		return err
	}
	defer controller.Shutdown()

	if err := controller.Speak(message); err != nil {
		// Already notified; a zero exit keeps the launcher rendering the
		// notification instead of the process failure.
		return nil
	}
	controller.Wait()
	return nil
}
